package config

import "os"

// Environment names the runtime environment the process was started in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// environments maps accepted ENV values to their environment.
var environments = map[string]Environment{
	"production":  Production,
	"test":        Test,
	"development": Development,
}

// GetEnvironment reports the current environment. CI=true wins over ENV
// so pipelines are always recognized; anything unrecognized counts as
// development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	if env, ok := environments[os.Getenv("ENV")]; ok {
		return env
	}
	return Development
}

// Convenience predicates over GetEnvironment.
func IsDevelopment() bool { return GetEnvironment() == Development }
func IsTest() bool        { return GetEnvironment() == Test }
func IsCI() bool          { return GetEnvironment() == CI }
func IsProduction() bool  { return GetEnvironment() == Production }
