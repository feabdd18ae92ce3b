package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tariffdesk/internal/assistant"
	"github.com/smallbiznis/tariffdesk/internal/config"
	"github.com/smallbiznis/tariffdesk/internal/docs"
	"github.com/smallbiznis/tariffdesk/internal/observability"
	"github.com/smallbiznis/tariffdesk/internal/ratelimit"
	"github.com/smallbiznis/tariffdesk/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),

		// Functional Domains
		docs.Module,
		assistant.Module,
		ratelimit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
