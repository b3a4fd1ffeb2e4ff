package cli

import "github.com/julianstephens/nudge/internal/mcpserver"

type McpCmd struct{}

func (c *McpCmd) Run(ctx *Context) error {
	return mcpserver.NewServer(ctx.Service(), ctx.Planner, ctx.Location).ServeStdio()
}
