package config

type Config interface {
	EnvConfig
	TokenConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Tokens
	Store
}

func New() Config {
	return mainConfig{}
}
