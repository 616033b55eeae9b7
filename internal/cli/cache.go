package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/pkg/cache"
	"github.com/matzehuels/rankorder/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the ordering result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached ordering results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, _, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			var count int
			switch ch := ch.(type) {
			case *cache.FileCache:
				count, err = ch.Clear(ctx)
				if err != nil {
					return fmt.Errorf("clear %s: %w", ch.Dir(), err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", ch.Dir())
			case *cache.RedisCache:
				pattern := c.Config.Cache.Prefix + "*"
				count, err = ch.Clear(ctx, pattern)
				if err != nil {
					return fmt.Errorf("clear redis keys %s: %w", pattern, err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Pattern: %s", pattern)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			switch cfg.Backend {
			case config.BackendRedis:
				fmt.Println(cfg.RedisURL)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				fmt.Println(cfg.Dir)
			}
			return nil
		},
	}
}
