package waybar

import (
	"reflect"
	"testing"

	"github.com/iancoleman/orderedmap"

	"github.com/thoreinstein/waybar-ai-usage/pkg/jsondoc"
)

func mustParse(t *testing.T, src string) *jsondoc.Document {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func moduleList(t *testing.T, doc *jsondoc.Document) []any {
	t.Helper()
	raw, ok := doc.Get(ModulesKey)
	if !ok {
		t.Fatalf("%s missing from document", ModulesKey)
	}
	list, ok := raw.([]any)
	if !ok {
		t.Fatalf("%s is %T, want []any", ModulesKey, raw)
	}
	return list
}

func execOf(t *testing.T, doc *jsondoc.Document, key string) string {
	t.Helper()
	raw, ok := doc.Get(key)
	if !ok {
		t.Fatalf("definition %q missing", key)
	}
	entry, ok := raw.(orderedmap.OrderedMap)
	if !ok {
		t.Fatalf("definition %q is %T, want orderedmap.OrderedMap", key, raw)
	}
	cmd, ok := entry.Get("exec")
	if !ok {
		t.Fatalf("definition %q has no exec", key)
	}
	s, ok := cmd.(string)
	if !ok {
		t.Fatalf("exec of %q is %T, want string", key, cmd)
	}
	return s
}

func TestEnsureModules(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		doc := jsondoc.New()
		if !EnsureModules(doc, Modules) {
			t.Fatal("EnsureModules() = false, want true")
		}
		got, ok := doc.StringList(ModulesKey)
		if !ok {
			t.Fatalf("%s is not a string list", ModulesKey)
		}
		want := []string{ModuleClaude, ModuleCodex}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})

	t.Run("appends after existing entries", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["clock", "battery"]}`)
		if !EnsureModules(doc, Modules) {
			t.Fatal("EnsureModules() = false, want true")
		}
		got, _ := doc.StringList(ModulesKey)
		want := []string{"clock", "battery", ModuleClaude, ModuleCodex}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})

	t.Run("already present", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["custom/claude-usage", "custom/codex-usage"]}`)
		if EnsureModules(doc, Modules) {
			t.Error("EnsureModules() = true, want false")
		}
	})

	t.Run("adds only the missing entry", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["custom/claude-usage"]}`)
		if !EnsureModules(doc, Modules) {
			t.Fatal("EnsureModules() = false, want true")
		}
		got, _ := doc.StringList(ModulesKey)
		want := []string{ModuleClaude, ModuleCodex}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})

	t.Run("keeps non-string elements", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["clock", 5]}`)
		if !EnsureModules(doc, Modules) {
			t.Fatal("EnsureModules() = false, want true")
		}
		got := moduleList(t, doc)
		want := []any{"clock", float64(5), ModuleClaude, ModuleCodex}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})

	t.Run("replaces a non-list value", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": "clock"}`)
		if !EnsureModules(doc, Modules) {
			t.Fatal("EnsureModules() = false, want true")
		}
		got, ok := doc.StringList(ModulesKey)
		if !ok {
			t.Fatalf("%s is not a string list", ModulesKey)
		}
		want := []string{ModuleClaude, ModuleCodex}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})
}

func TestRemoveModules(t *testing.T) {
	t.Run("removes managed entries", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["clock", "custom/claude-usage", "custom/codex-usage"]}`)
		if !RemoveModules(doc, Modules) {
			t.Fatal("RemoveModules() = false, want true")
		}
		got, _ := doc.StringList(ModulesKey)
		if !reflect.DeepEqual(got, []string{"clock"}) {
			t.Errorf("modules = %v, want [clock]", got)
		}
	})

	t.Run("nothing to remove", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["clock"]}`)
		if RemoveModules(doc, Modules) {
			t.Error("RemoveModules() = true, want false")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		doc := jsondoc.New()
		if RemoveModules(doc, Modules) {
			t.Error("RemoveModules() = true, want false")
		}
	})

	t.Run("keeps non-string elements", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["clock", 5, "custom/claude-usage"]}`)
		if !RemoveModules(doc, Modules) {
			t.Fatal("RemoveModules() = false, want true")
		}
		got := moduleList(t, doc)
		want := []any{"clock", float64(5)}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("modules = %v, want %v", got, want)
		}
	})

	t.Run("leaves an emptied list in place", func(t *testing.T) {
		doc := mustParse(t, `{"modules-left": ["custom/claude-usage", "custom/codex-usage"]}`)
		if !RemoveModules(doc, Modules) {
			t.Fatal("RemoveModules() = false, want true")
		}
		if !doc.Has(ModulesKey) {
			t.Errorf("%s removed, want empty list kept", ModulesKey)
		}
		got, _ := doc.StringList(ModulesKey)
		if len(got) != 0 {
			t.Errorf("modules = %v, want empty", got)
		}
	})
}

const mutateTemplate = `{
  "custom/claude-usage": {
    "exec": "waybar-ai-usage usage claude --waybar",
    "interval": 60
  },
  "custom/codex-usage": {
    "exec": "waybar-ai-usage usage codex --waybar",
    "interval": 60
  }
}`

func TestEnsureDefinitions(t *testing.T) {
	t.Run("copies missing definitions", func(t *testing.T) {
		template := mustParse(t, mutateTemplate)
		doc := jsondoc.New()
		if !EnsureDefinitions(doc, Modules, template) {
			t.Fatal("EnsureDefinitions() = false, want true")
		}
		if got := execOf(t, doc, ModuleClaude); got != "waybar-ai-usage usage claude --waybar" {
			t.Errorf("claude exec = %q", got)
		}
		if got := execOf(t, doc, ModuleCodex); got != "waybar-ai-usage usage codex --waybar" {
			t.Errorf("codex exec = %q", got)
		}
	})

	t.Run("keeps an existing definition", func(t *testing.T) {
		template := mustParse(t, mutateTemplate)
		doc := mustParse(t, `{"custom/claude-usage": {"exec": "my-wrapper --waybar"}}`)
		if !EnsureDefinitions(doc, Modules, template) {
			t.Fatal("EnsureDefinitions() = false, want true")
		}
		if got := execOf(t, doc, ModuleClaude); got != "my-wrapper --waybar" {
			t.Errorf("claude exec = %q, want the user's command kept", got)
		}
		if !doc.Has(ModuleCodex) {
			t.Error("codex definition not copied")
		}
	})

	t.Run("skips keys absent from the template", func(t *testing.T) {
		template := mustParse(t, `{"custom/claude-usage": {"exec": "waybar-ai-usage usage claude --waybar"}}`)
		doc := jsondoc.New()
		if !EnsureDefinitions(doc, Modules, template) {
			t.Fatal("EnsureDefinitions() = false, want true")
		}
		if doc.Has(ModuleCodex) {
			t.Error("codex definition invented, want skipped")
		}
	})

	t.Run("all present", func(t *testing.T) {
		template := mustParse(t, mutateTemplate)
		doc := mustParse(t, mutateTemplate)
		if EnsureDefinitions(doc, Modules, template) {
			t.Error("EnsureDefinitions() = true, want false")
		}
	})
}

func TestRemoveDefinitions(t *testing.T) {
	t.Run("removes present definitions", func(t *testing.T) {
		doc := mustParse(t, `{"layer": "top", "custom/claude-usage": {}, "custom/codex-usage": {}}`)
		if !RemoveDefinitions(doc, Modules) {
			t.Fatal("RemoveDefinitions() = false, want true")
		}
		if doc.Has(ModuleClaude) || doc.Has(ModuleCodex) {
			t.Error("managed definitions still present")
		}
		if !doc.Has("layer") {
			t.Error("unrelated key removed")
		}
	})

	t.Run("absent definitions", func(t *testing.T) {
		doc := mustParse(t, `{"layer": "top"}`)
		if RemoveDefinitions(doc, Modules) {
			t.Error("RemoveDefinitions() = true, want false")
		}
	})
}

func TestAddBrowserFlags(t *testing.T) {
	t.Run("no browsers requested", func(t *testing.T) {
		doc := mustParse(t, mutateTemplate)
		if AddBrowserFlags(doc, Modules, nil) {
			t.Error("AddBrowserFlags() = true, want false")
		}
	})

	t.Run("appends flags after the waybar flag", func(t *testing.T) {
		doc := mustParse(t, mutateTemplate)
		if !AddBrowserFlags(doc, Modules, []string{"firefox"}) {
			t.Fatal("AddBrowserFlags() = false, want true")
		}
		want := "waybar-ai-usage usage claude --waybar --browser firefox"
		if got := execOf(t, doc, ModuleClaude); got != want {
			t.Errorf("claude exec = %q, want %q", got, want)
		}
		want = "waybar-ai-usage usage codex --waybar --browser firefox"
		if got := execOf(t, doc, ModuleCodex); got != want {
			t.Errorf("codex exec = %q, want %q", got, want)
		}
	})

	t.Run("multiple browsers", func(t *testing.T) {
		doc := mustParse(t, mutateTemplate)
		if !AddBrowserFlags(doc, Modules, []string{"firefox", "chromium"}) {
			t.Fatal("AddBrowserFlags() = false, want true")
		}
		want := "waybar-ai-usage usage claude --waybar --browser firefox --browser chromium"
		if got := execOf(t, doc, ModuleClaude); got != want {
			t.Errorf("claude exec = %q, want %q", got, want)
		}
	})

	t.Run("already flagged", func(t *testing.T) {
		doc := mustParse(t, `{"custom/claude-usage": {"exec": "waybar-ai-usage usage claude --waybar --browser firefox"}}`)
		if AddBrowserFlags(doc, Modules, []string{"chromium"}) {
			t.Error("AddBrowserFlags() = true, want false")
		}
		want := "waybar-ai-usage usage claude --waybar --browser firefox"
		if got := execOf(t, doc, ModuleClaude); got != want {
			t.Errorf("claude exec = %q, want untouched", got)
		}
	})

	t.Run("exec without the waybar flag", func(t *testing.T) {
		doc := mustParse(t, `{"custom/claude-usage": {"exec": "echo hi"}}`)
		if AddBrowserFlags(doc, Modules, []string{"firefox"}) {
			t.Error("AddBrowserFlags() = true, want false")
		}
	})

	t.Run("missing definitions", func(t *testing.T) {
		doc := jsondoc.New()
		if AddBrowserFlags(doc, Modules, []string{"firefox"}) {
			t.Error("AddBrowserFlags() = true, want false")
		}
	})

	t.Run("leaves on-click alone", func(t *testing.T) {
		doc := mustParse(t, `{
			"custom/claude-usage": {
				"exec": "waybar-ai-usage usage claude --waybar",
				"on-click": "waybar-ai-usage usage claude --waybar --fresh"
			}
		}`)
		if !AddBrowserFlags(doc, Modules, []string{"firefox"}) {
			t.Fatal("AddBrowserFlags() = false, want true")
		}
		raw, _ := doc.Get(ModuleClaude)
		entry := raw.(orderedmap.OrderedMap)
		onClick, _ := entry.Get("on-click")
		if got := onClick.(string); got != "waybar-ai-usage usage claude --waybar --fresh" {
			t.Errorf("on-click = %q, want untouched", got)
		}
	})
}
