package waybar

import (
	"bytes"
	_ "embed"
	"os"
)

// Source provides the config fragment and stylesheet that setup installs.
// The bundled implementation serves files compiled into the binary; tests
// substitute an in-memory source.
type Source interface {
	// Config returns the JSONC fragment holding the module definitions.
	Config() ([]byte, error)
	// Style returns the stylesheet carrying the managed region.
	Style() ([]byte, error)
}

//go:embed templates/config-example.jsonc
var bundledConfig []byte

//go:embed templates/style-example.css
var bundledStyle []byte

// commandPrefix is the command name in the templates' exec strings, with its
// trailing separator. It is rewritten to the resolved executable path on
// install.
const commandPrefix = "waybar-ai-usage "

// Bundled serves the templates compiled into the binary.
type Bundled struct {
	// ExecPath replaces the bare command name in exec strings. When empty
	// the templates are served verbatim and installed entries resolve the
	// command through $PATH.
	ExecPath string
}

// NewBundled returns a Bundled source using the running executable's path.
func NewBundled() *Bundled {
	execPath, err := os.Executable()
	if err != nil {
		execPath = ""
	}
	return &Bundled{ExecPath: execPath}
}

// Config implements Source.
func (b *Bundled) Config() ([]byte, error) {
	data := bundledConfig
	if b.ExecPath != "" {
		data = bytes.ReplaceAll(data, []byte(commandPrefix), []byte(b.ExecPath+" "))
	}
	return data, nil
}

// Style implements Source.
func (b *Bundled) Style() ([]byte, error) {
	return bundledStyle, nil
}
