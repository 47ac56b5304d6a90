package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goskim/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached results",
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache database location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cachePath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}

func cachePath() (string, error) {
	if cfg != nil && cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	return cache.DefaultPath()
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	path, err := cachePath()
	if err != nil {
		return err
	}

	c, err := cache.Open(path)
	if err != nil {
		return err
	}
	defer c.Close()

	removed, err := c.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("cleared %d cached result(s)\n", removed)
	return nil
}
