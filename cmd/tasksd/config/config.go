package config

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// BaseConfig is the application configuration root. Values load from
// config files and environment overrides via go-config.
type BaseConfig struct {
	Name        string      `json:"name" yaml:"name"`
	Debug       bool        `json:"debug" yaml:"debug"`
	Server      Server      `json:"server" yaml:"server"`
	Auth        Auth        `json:"auth" yaml:"auth"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
}

func (c *BaseConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Persistence.Validate()
}

func (c *BaseConfig) GetName() string {
	if c.Name == "" {
		return "tasksd"
	}
	return c.Name
}

func (c *BaseConfig) GetDebug() bool { return c.Debug }

func (c *BaseConfig) GetServer() Server { return c.Server }

func (c *BaseConfig) GetAuth() *Auth { return &c.Auth }

func (c *BaseConfig) GetPersistence() Persistence { return c.Persistence }

type Server struct {
	Address string `json:"address" yaml:"address"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":9876"
	}
	return s.Address
}

// Auth satisfies the tasks.Config interface. Zero values fall back to
// the same defaults the middleware would apply.
type Auth struct {
	SigningKey      string   `json:"signing_key" yaml:"signing_key"`
	SigningMethod   string   `json:"signing_method" yaml:"signing_method"`
	ContextKey      string   `json:"context_key" yaml:"context_key"`
	TokenExpiration int      `json:"token_expiration" yaml:"token_expiration"`
	TokenLookup     string   `json:"token_lookup" yaml:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme" yaml:"auth_scheme"`
	Issuer          string   `json:"issuer" yaml:"issuer"`
	Audience        []string `json:"audience" yaml:"audience"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(16, 0)),
	)
}

func (a *Auth) GetSigningKey() string { return a.SigningKey }

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

// GetTokenExpiration is the session TTL in hours
func (a *Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 1
	}
	return a.TokenExpiration
}

func (a *Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization"
	}
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a *Auth) GetIssuer() string {
	if a.Issuer == "" {
		return "tasksd"
	}
	return a.Issuer
}

func (a *Auth) GetAudience() []string {
	if len(a.Audience) == 0 {
		return []string{"tasksd"}
	}
	return a.Audience
}

type Persistence struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string { return p.DSN }
