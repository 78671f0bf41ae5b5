package node_test

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/node"
	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/logger"
)

type greeting struct {
	text string
}

func newInitPlugin(t *testing.T, stages *[]string, disabled ...string) *node.InitPlugin {
	return &node.InitPlugin{
		Pluggable: node.Pluggable{
			Name: "App",
			Provide: func(c *dig.Container) {
				require.NoError(t, c.Provide(func() *greeting { return &greeting{text: "hello"} }))
			},
			Configure: func() { *stages = append(*stages, "app.configure") },
		},
		Init: func(params map[string][]*flag.FlagSet, maskedKeys []string) (*node.InitConfig, error) {
			// a previous test may have initialized it already
			_ = logger.InitGlobalLogger(configuration.New())

			require.Contains(t, params, "nodeConfig")
			require.Contains(t, maskedKeys, "secret")
			return &node.InitConfig{DisabledPlugins: disabled}, nil
		},
	}
}

func TestNodeLifecycle(t *testing.T) {
	var stages []string
	var injected *greeting

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.String("secret", "", "a secret")

	core := &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:   "Core",
			Params: &node.PluginParams{Params: map[string]*flag.FlagSet{"nodeConfig": flags}, Masked: []string{"secret"}},
			DepsFunc: func(g *greeting) {
				injected = g
			},
			Configure: func() { stages = append(stages, "core.configure") },
			Run:       func() { stages = append(stages, "core.run") },
		},
	}

	enabled := &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Enabled Plugin",
			Configure: func() { stages = append(stages, "enabled.configure") },
			Run:       func() { stages = append(stages, "enabled.run") },
		},
	}

	disabled := &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Disabled",
			Configure: func() { stages = append(stages, "disabled.configure") },
		},
	}

	n := node.New(
		node.WithInitPlugin(newInitPlugin(t, &stages, "disabled")),
		node.WithCorePlugins(core),
		node.WithPlugins(enabled, disabled),
	)

	require.NotNil(t, injected)
	require.Equal(t, "hello", injected.text)
	require.True(t, n.IsSkipped(disabled))
	require.False(t, n.IsSkipped(enabled))
	require.Equal(t, "enabledplugin", enabled.Identifier())

	n.Start()
	n.Shutdown()

	require.Equal(t, []string{"app.configure", "core.configure", "enabled.configure", "core.run", "enabled.run"}, stages)
	require.NotNil(t, core.Logger())
	require.Equal(t, n, core.Node)
}

func TestNodeWithoutInitPluginPanics(t *testing.T) {
	require.Panics(t, func() {
		node.New()
	})
}
