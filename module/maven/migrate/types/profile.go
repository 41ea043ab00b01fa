package types

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	sourceSection = "SourceNexus"
	targetSection = "TargetNexus"
	mavenSection  = "Maven"
)

// Server is one nexus connection read from a profile.
type Server struct {
	Address  string
	Port     int
	Protocol string
	Username string
	Password string
}

// Endpoint renders protocol://address:port.
func (s Server) Endpoint() string {
	return fmt.Sprintf("%s://%s:%d", s.Protocol, s.Address, s.Port)
}

// Profile is the legacy connection file: source and target nexus plus the
// location of the maven migration file.
type Profile struct {
	Source      *Server
	Target      *Server
	MavenConfig string
}

// LoadProfile reads an INI connection profile.
func LoadProfile(path string) (*Profile, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile: %w", err)
	}

	profile := &Profile{}
	if file.HasSection(sourceSection) {
		profile.Source = readServer(file.Section(sourceSection))
	}
	if file.HasSection(targetSection) {
		profile.Target = readServer(file.Section(targetSection))
	}
	if file.HasSection(mavenSection) {
		cfg := file.Section(mavenSection).Key("config").String()
		if cfg != "" && !filepath.IsAbs(cfg) {
			cfg = filepath.Join(filepath.Dir(path), cfg)
		}
		profile.MavenConfig = cfg
	}
	return profile, nil
}

func readServer(section *ini.Section) *Server {
	return &Server{
		Address:  section.Key("address").MustString("localhost"),
		Port:     section.Key("port").MustInt(80),
		Protocol: section.Key("protocol").MustString("http"),
		Username: section.Key("username").String(),
		Password: section.Key("password").String(),
	}
}

// Overlay copies the profile connections into a configuration.
func (p *Profile) Overlay() Overlay {
	return func(config *Config) {
		if p.Source != nil {
			applyServer(&config.Source, p.Source)
		}
		if p.Target != nil {
			applyServer(&config.Dest, p.Target)
		}
	}
}

func applyServer(reg *RegistryConfig, server *Server) {
	retries, insecure := reg.Retries, reg.Insecure
	*reg = server.Registry()
	reg.Retries, reg.Insecure = retries, insecure
}

// Registry converts the connection into a registry configuration.
func (s Server) Registry() RegistryConfig {
	return RegistryConfig{
		Endpoint: s.Endpoint(),
		Type:     NEXUS,
		Credentials: CredentialsConfig{
			Username: s.Username,
			Password: s.Password,
		},
	}
}
