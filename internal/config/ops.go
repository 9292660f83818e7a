package config

import "strings"

func (c Config) FindServer(name string) (Server, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Server{}, false
	}
	for _, s := range c.Servers {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Server{}, false
}

func (c *Config) UpsertServer(s Server) {
	for i := range c.Servers {
		if strings.EqualFold(c.Servers[i].Name, s.Name) {
			c.Servers[i] = s
			return
		}
	}
	c.Servers = append(c.Servers, s)
}

func (c *Config) RemoveServer(name string) bool {
	for i := range c.Servers {
		if !strings.EqualFold(c.Servers[i].Name, name) {
			continue
		}
		c.Servers = append(c.Servers[:i], c.Servers[i+1:]...)
		return true
	}
	return false
}
