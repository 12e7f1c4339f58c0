package config

// Well-known config keys from spec.md §6. Declared as constants so both
// engine bootstrap code and tests refer to them by name instead of
// string literals.
const (
	KeyWindowTitle             = "windowTitle"
	KeyWidth                   = "width"
	KeyHeight                  = "height"
	KeyVSync                   = "vsync"
	KeyScenePipeline           = "scenePipeline"
	KeyMinWorkerThreads        = "minWorkerThreads"
	KeySingleThreadGSExecution = "singleThreadGSExecution"
	KeyShowSystemConsoleWindow = "showSystemConsoleWindow"
	KeyDebugLevel              = "debugLevel"
	KeyDisableCulling          = "disableCulling"
)

// RegisterBuiltinDefaults installs the engine's built-in defaults for
// every config key spec.md §6 names. Load applies these to any key the
// config file and CLI args left unset.
func (s *Store) RegisterBuiltinDefaults() {
	s.RegisterDefault(KeyWindowTitle, "saberrender", Persistent)
	s.RegisterDefault(KeyWidth, 1280, Persistent)
	s.RegisterDefault(KeyHeight, 720, Persistent)
	s.RegisterDefault(KeyVSync, true, Persistent)
	s.RegisterDefault(KeyScenePipeline, "default_scene.json", Persistent)
	s.RegisterDefault(KeyMinWorkerThreads, 0, Persistent)
	s.RegisterDefault(KeySingleThreadGSExecution, false, Runtime)
	s.RegisterDefault(KeyShowSystemConsoleWindow, false, Runtime)
	s.RegisterDefault(KeyDebugLevel, 0, Runtime)
	s.RegisterDefault(KeyDisableCulling, false, Runtime)
}
