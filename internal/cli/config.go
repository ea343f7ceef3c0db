package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/cells"
	"github.com/portal-erp/erptable/internal/config"
	"github.com/portal-erp/erptable/internal/ui/styles"
	"github.com/portal-erp/erptable/internal/util"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set erptable options",
		Long: `Get and set options in the global config file.

Available settings:
` + config.GenerateHelpText() + `

Views are defined in the same file:

  [views.orders]
  title = "Orders"
  sort = "DATAEMISSAO:desc"

  [[views.orders.columns]]
  key = "VALORBRUTO"
  header = "Valor"
  sortable = true
  render = "currency"
  type = "decimal"

Renderers: ` + strings.Join(cells.Names(), ", ") + `

Examples:
  erptable config --list                  # Show all settings and views
  erptable config display.page_size       # Get value
  erptable config display.page_size 25    # Set value
  erptable config display.locale pt-BR    # Portuguese captions
  erptable config --path                  # Show config file location`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ListKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	cmd.Flags().Bool("path", false, "Print the config file path")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	showPath, _ := cmd.Flags().GetBool("path")

	if showPath {
		fmt.Println(config.GlobalConfigPath())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if listAll || len(args) == 0 {
		printConfig(cfg)
		return nil
	}

	key := strings.ToLower(args[0])

	// Get value
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return unknownKeyError(key)
		}
		fmt.Println(value)
		return nil
	}

	// Set value
	if err := cfg.SetValue(key, args[1]); err != nil {
		if _, ok := cfg.GetValue(key); !ok {
			return unknownKeyError(key)
		}
		return util.NewError(fmt.Sprintf("Invalid value for %s", key)).
			WithMessage(err.Error()).
			Wrap(err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	value, _ := cfg.GetValue(key)
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

func printConfig(cfg *config.GlobalConfig) {
	fmt.Println(styles.SectionHeader("Settings") + " " + styles.MutedMsg(config.GlobalConfigPath()))
	for _, key := range config.ListKeys() {
		value, _ := cfg.GetValue(key)
		fmt.Printf("  %s=%s\n", key, value)
	}

	fmt.Println()
	fmt.Println(styles.SectionHeader("Views"))
	builtin := config.BuiltinViews()
	for _, name := range cfg.ViewNames() {
		view, err := cfg.ResolveView(name)
		if err != nil {
			continue
		}
		origin := "config"
		if _, ok := cfg.Views[name]; !ok {
			origin = "built-in"
		} else if _, ok := builtin[name]; ok {
			origin = "config, overrides built-in"
		}
		keys := make([]string, 0, len(view.Columns))
		for _, c := range view.Columns {
			if c.Key != config.ActionsKey {
				keys = append(keys, c.Key)
			}
		}
		fmt.Printf("  %s %s\n", styles.Cyan(name), styles.MutedMsg("("+origin+")"))
		fmt.Println(styles.Indent(strings.Join(keys, ", "), 4))
	}
}

func unknownKeyError(key string) error {
	return util.NewError(fmt.Sprintf("Unknown config key: %s", key)).
		WithMessage("Known keys: " + strings.Join(config.ListKeys(), ", ")).
		WithSuggestions("erptable config --list")
}
