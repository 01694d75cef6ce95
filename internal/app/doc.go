// Package app wires the shared runtime of every tabviz command.
//
// A command binds the global flags, builds an Application for its stage and
// runs its body inside Application.Run:
//
//	flags := &app.GlobalFlags{}
//	flags.Bind(cmd.PersistentFlags())
//	...
//	a, err := app.NewApplication("extract", *flags, overrides...)
//	if err != nil {
//	    return err
//	}
//	return a.Run(cmd.Context(), func(ctx context.Context) error { ... })
//
// NewApplication loads configuration (defaults, YAML, .env, TABVIZ_*
// environment, then flag overrides), validates it, and initializes the
// logger and telemetry. Run attaches a run ID, opens the stage span and
// flushes telemetry when the body returns.
package app
