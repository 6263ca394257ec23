// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"sort"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/config"
	"github.com/randlab/randlab/internal/i18n"
)

// langCmd represents the 'lang' command.
// It shows the available UI languages or switches to a new one.
var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the UI language",
	Long: `Without an argument, lists the available languages with the active one
marked. With a language code argument, switches the UI language and
persists the choice to the config file.

Example:
  randlab lang de`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		locales := i18n.GetAvailableLocales()

		if len(args) == 0 {
			tags := make([]string, 0, len(locales))
			for tag := range locales {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				marker := "  "
				if tag == i18n.GetLang() {
					marker = "* "
				}
				fmt.Printf("%s%s\t%s\n", marker, tag, locales[tag])
			}
			return
		}

		code := args[0]
		if _, ok := locales[code]; !ok {
			log.Fatalf("%s", i18n.T("lang.cli_unknown", code))
		}
		i18n.SetLang(code)
		appConfig.Language = code
		viper.Set("language", code)
		if err := config.WriteConfigFile(&appConfig, false); err != nil {
			log.Fatalf("%s", i18n.T("lang.cli_error_save", err))
		}
		fmt.Println(i18n.T("lang.cli_set", locales[code]))
	},
}
