package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nocta-ui/cli/internal/registry"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available components",
		Long:  `List all components available in the Nocta UI registry, grouped by category.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	ctx, cancel := commandContext()
	defer cancel()

	client := newRegistryClient()
	reg, err := client.FetchRegistry(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	info("%s", heading("Available Nocta UI components:"))
	fmt.Println()

	categories := make([]registry.CategoryInfo, 0, len(reg.Categories))
	for _, category := range reg.Categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	for _, category := range categories {
		info("%s", heading(category.Name))
		info("%s", dimmed("   "+category.Description))
		fmt.Println()

		components := append([]string(nil), category.Components...)
		sort.Strings(components)

		for _, slug := range components {
			component, ok := reg.Components[slug]
			if !ok {
				continue
			}
			success("%s", strings.ToLower(component.Name))
			info("%s", dimmed("   "+component.Description))
			if len(component.Variants) > 0 {
				info("Variants: %s", strings.Join(component.Variants, ", "))
			}
			if len(component.Sizes) > 0 {
				info("Sizes: %s", strings.Join(component.Sizes, ", "))
			}
			fmt.Println()
		}
	}

	info("%s", heading("Add a component:"))
	info("%s", dimmed("   nocta add <component-name>"))
	fmt.Println()
	info("%s", heading("Examples:"))
	info("%s", dimmed("   nocta add button"))
	info("%s", dimmed("   nocta add card"))

	return nil
}
