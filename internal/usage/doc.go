// Package usage fetches AI-account usage snapshots for the Waybar modules.
//
// Two providers are covered: claude.ai, queried with a session cookie from
// the tool config, and the Codex CLI account, whose auth.json tokens are
// rotated through the OAuth refresh grant when stale. Snapshots are cached
// per service under the XDG cache directory with a short TTL; a sibling
// .updating marker keeps the independent per-module Waybar invocations from
// fetching the same account at the same time.
package usage
