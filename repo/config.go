package repo

import (
	"time"
)

type Config struct {
	RepoRoot string `mapstructure:"-" toml:"-"`
	Node     Node   `mapstructure:"node" toml:"node"`
	Store    Store  `mapstructure:"store" toml:"store"`
	Sync     Sync   `mapstructure:"sync" toml:"sync"`
	Log      Log    `mapstructure:"log" toml:"log"`
}

type Node struct {
	RPCHost string `mapstructure:"rpc_host" toml:"rpc_host"`
	RPCUser string `mapstructure:"rpc_user" toml:"rpc_user"`
	RPCPass string `mapstructure:"rpc_pass" toml:"rpc_pass"`
}

type Store struct {
	DSN string `mapstructure:"dsn" toml:"dsn"`
}

type Sync struct {
	ProposalInterval   time.Duration `mapstructure:"proposal_interval" toml:"proposal_interval"`
	MasternodeInterval time.Duration `mapstructure:"masternode_interval" toml:"masternode_interval"`
	// PassTimeout bounds one whole sync pass. Zero disables the bound.
	PassTimeout time.Duration `mapstructure:"pass_timeout" toml:"pass_timeout"`
}

type Log struct {
	Level    string `mapstructure:"level" toml:"level"`
	Filename string `mapstructure:"filename" toml:"filename"`
}

func DefaultConfig(repoRoot string) *Config {
	return &Config{
		RepoRoot: repoRoot,
		Node: Node{
			RPCHost: "127.0.0.1:9998",
			RPCUser: "rpcuser",
			RPCPass: "rpcpass",
		},
		Store: Store{
			DSN: "host=127.0.0.1 user=yappr password=yappr dbname=yappr port=5432 sslmode=disable",
		},
		Sync: Sync{
			ProposalInterval:   5 * time.Minute,
			MasternodeInterval: 2 * time.Minute,
			PassTimeout:        2 * time.Minute,
		},
		Log: Log{
			Level:    "info",
			Filename: "yappr.log",
		},
	}
}
