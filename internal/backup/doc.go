// Package backup provides a timestamped backup ledger for files the tool
// rewrites.
//
// Every backup is a plain copy placed next to the original, named after it:
//
//	~/.config/waybar/style.css
//	~/.config/waybar/style.css.bak.20250812-140455
//	~/.config/waybar/style.css.bak.20250812-141003
//
// The suffix is the local creation time in 20060102-150405 layout, extended
// with nanoseconds when two backups of the same file land in the same second.
// Both layouts sort lexicographically in creation order, so "the latest
// backup" is simply the greatest name.
//
// # Creating Backups
//
// Use [Manager.Create] before modifying a file:
//
//	mgr := backup.NewManager()
//	backupPath, err := mgr.Create("/home/user/.config/waybar/style.css")
//
// # Restoring Backups
//
// Use [Manager.Restore] to copy a backup over the original:
//
//	fresh, err := mgr.Restore(stylePath, backupPath)
//
// Restore backs up the current contents first (returning that fresh backup's
// path), so a restore can itself be undone. The write is atomic.
//
// # Listing Backups
//
// [Manager.List] returns the ledger newest first; [Manager.Latest] is a
// shortcut for its head. Backups are never pruned automatically: they are
// small text files, and the ledger doubles as an edit history.
package backup
