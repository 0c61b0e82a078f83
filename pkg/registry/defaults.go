package registry

import (
	"net/http"

	"github.com/spf13/afero"

	"github.com/enactflow/enact/pkg/nodes/code"
	"github.com/enactflow/enact/pkg/nodes/conditional"
	"github.com/enactflow/enact/pkg/nodes/fileop"
	"github.com/enactflow/enact/pkg/nodes/httprequest"
	"github.com/enactflow/enact/pkg/nodes/loop"
	"github.com/enactflow/enact/pkg/nodes/userinput"
	"github.com/enactflow/enact/pkg/subprocess"
)

// Dependencies carries the external resources the default executors run
// against. Zero-value fields fall back to production defaults: the OS
// filesystem, real subprocesses and a shared HTTP client.
type Dependencies struct {
	Filesystem afero.Fs
	Runner     subprocess.Runner
	HTTPClient *http.Client
	PythonBin  string
}

// RegisterDefaults registers all built-in node executors.
func (r *Registry) RegisterDefaults(deps Dependencies) {
	r.Register(code.NewExecutor(deps.Runner, deps.PythonBin))
	r.Register(httprequest.NewExecutor(deps.HTTPClient))
	r.Register(fileop.NewExecutor(deps.Filesystem))
	r.Register(conditional.NewExecutor())
	r.Register(loop.NewExecutor())
	r.Register(userinput.NewExecutor())
}
