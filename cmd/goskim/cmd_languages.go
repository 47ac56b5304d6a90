package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"goskim/internal/skim"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range skim.Supported() {
			fmt.Printf("%-12s %s\n", lang.Name(), strings.Join(lang.Extensions(), " "))
		}
	},
}
