package config

const CurrentVersion = 1

type Config struct {
	Version    int      `json:"version" toml:"version"`
	Actor      Actor    `json:"actor" toml:"actor"`
	SOCKSProxy string   `json:"socksProxy,omitempty" toml:"socks_proxy,omitempty"`
	Servers    []Server `json:"servers" toml:"servers"`
}

// Actor identifies this tool to the admin API in the Actor header.
type Actor struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

type Server struct {
	Name      string `json:"name" toml:"name"`
	Address   string `json:"address" toml:"address"`
	Token     string `json:"token" toml:"token"`
	ActorID   string `json:"actorId,omitempty" toml:"actor_id,omitempty"`
	ActorName string `json:"actorName,omitempty" toml:"actor_name,omitempty"`
}
