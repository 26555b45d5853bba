package cli

import "gtr/internal/config"

// Flags holds command-line flags
type Flags struct {
	Workers    int
	TestPath   string
	NameFilter string
	TestCases  bool
	OnlyFailed bool
	EnvFile    string
	Env        []string
	ExtraArgs  []string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Workers:    f.Workers,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		TestCases:  f.TestCases,
		OnlyFailed: f.OnlyFailed,
		EnvFile:    f.EnvFile,
		Env:        f.Env,
		ExtraArgs:  f.ExtraArgs,
	}
}
