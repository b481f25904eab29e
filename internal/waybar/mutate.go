package waybar

import (
	"slices"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/thoreinstein/waybar-ai-usage/pkg/jsondoc"
)

// EnsureModules adds the given entries to the membership list, preserving
// existing order and unrelated entries. A missing or non-list value is
// replaced with an empty list first. Reports whether the document changed.
func EnsureModules(doc *jsondoc.Document, entries []string) bool {
	raw, exists := doc.Get(ModulesKey)
	list, isList := raw.([]any)

	changed := false
	if !exists || !isList {
		list = []any{}
		changed = true
	}

	for _, entry := range entries {
		if !containsString(list, entry) {
			list = append(list, entry)
			changed = true
		}
	}

	if changed {
		doc.Set(ModulesKey, list)
	}
	return changed
}

// RemoveModules filters the given entries out of the membership list,
// preserving the relative order of survivors. Non-string elements are kept.
// Reports whether the document changed.
func RemoveModules(doc *jsondoc.Document, entries []string) bool {
	raw, exists := doc.Get(ModulesKey)
	list, isList := raw.([]any)
	if !exists || !isList {
		return false
	}

	out := make([]any, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && slices.Contains(entries, s) {
			continue
		}
		out = append(out, v)
	}

	if len(out) == len(list) {
		return false
	}
	doc.Set(ModulesKey, out)
	return true
}

// EnsureDefinitions copies each entry's definition from the template into the
// document when the document lacks it. Entries absent from the template are
// skipped. Reports whether the document changed.
func EnsureDefinitions(doc *jsondoc.Document, entries []string, template *jsondoc.Document) bool {
	changed := false
	for _, key := range entries {
		if doc.Has(key) {
			continue
		}
		def, ok := template.Get(key)
		if !ok {
			continue
		}
		doc.Set(key, def)
		changed = true
	}
	return changed
}

// RemoveDefinitions deletes each entry's top-level definition. Missing keys
// are a no-op. Reports whether the document changed.
func RemoveDefinitions(doc *jsondoc.Document, entries []string) bool {
	changed := false
	for _, key := range entries {
		if doc.Delete(key) {
			changed = true
		}
	}
	return changed
}

// AddBrowserFlags appends "--browser NAME" flags to each managed definition's
// exec command, directly after its "--waybar" token. Definitions whose exec
// already carries a --browser flag, or lacks --waybar, are left alone.
// Reports whether the document changed.
func AddBrowserFlags(doc *jsondoc.Document, entries []string, browsers []string) bool {
	if len(browsers) == 0 {
		return false
	}

	flags := make([]string, len(browsers))
	for i, b := range browsers {
		flags[i] = "--browser " + b
	}
	suffix := strings.Join(flags, " ")

	changed := false
	for _, key := range entries {
		raw, ok := doc.Get(key)
		if !ok {
			continue
		}
		entry, ok := raw.(orderedmap.OrderedMap)
		if !ok {
			continue
		}
		execRaw, ok := entry.Get("exec")
		if !ok {
			continue
		}
		execCmd, ok := execRaw.(string)
		if !ok {
			continue
		}
		if !strings.Contains(execCmd, "--waybar") || strings.Contains(execCmd, "--browser") {
			continue
		}

		entry.Set("exec", strings.Replace(execCmd, "--waybar", "--waybar "+suffix, 1))
		doc.Set(key, entry)
		changed = true
	}
	return changed
}

func containsString(list []any, s string) bool {
	for _, v := range list {
		if str, ok := v.(string); ok && str == s {
			return true
		}
	}
	return false
}
