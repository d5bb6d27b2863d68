package config

const (
	defaultStateDir      = "~/.local/share/splitplan/state"
	defaultLogDir        = "~/.local/share/splitplan/logs"
	defaultMaxNameLength = 50
	defaultInterviewFile = "interview.md"
	defaultManifestFile  = "manifest.md"
	defaultSpecFile      = "spec.md"
	defaultSplitsDir     = "splits"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Naming: Naming{
			MaxNameLength: defaultMaxNameLength,
		},
		Workflow: Workflow{
			InterviewFile: defaultInterviewFile,
			ManifestFile:  defaultManifestFile,
			SpecFile:      defaultSpecFile,
			SplitsDir:     defaultSplitsDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
