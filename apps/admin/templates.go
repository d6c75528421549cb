package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ourson-app/backend/core/content"
)

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the activity template catalog by category",
		Run: func(cmd *cobra.Command, args []string) {
			printTemplates()
		},
	}
}

func printTemplates() {
	category := color.New(color.FgCyan, color.Bold)
	id := color.New(color.FgGreen)

	byCategory := content.ListByCategory()
	for _, cat := range content.Categories() {
		_, _ = category.Printf("%s\n", cat)
		for _, ref := range byCategory[cat] {
			fields, _ := content.FieldsFor(ref.ID)
			_, _ = id.Printf("  %-20s", ref.ID)
			fmt.Printf(" %s (%d fields)\n", ref.Label, len(fields))
		}
		fmt.Println()
	}
}
