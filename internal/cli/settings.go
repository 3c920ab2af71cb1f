package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Lê ou altera as preferências (tema e som)",
	}
	cmd.AddCommand(newSettingsGetCmd(), newSettingsSetCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Mostra as preferências salvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			st := application.Settings()
			display := map[string]string{
				"sound": onOff(st.SoundEnabled),
				"theme": lightDark(st.LightTheme),
			}
			out, err := yaml.Marshal(display)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var soundFlag, themeFlag string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Altera as preferências",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("sound") && !cmd.Flags().Changed("theme") {
				return fmt.Errorf("nothing to change: pass --sound or --theme")
			}

			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			st := application.Settings()
			if cmd.Flags().Changed("sound") {
				switch soundFlag {
				case "on":
					st.SoundEnabled = true
				case "off":
					st.SoundEnabled = false
				default:
					return fmt.Errorf("--sound must be on or off")
				}
			}
			if cmd.Flags().Changed("theme") {
				switch themeFlag {
				case "light":
					st.LightTheme = true
				case "dark":
					st.LightTheme = false
				default:
					return fmt.Errorf("--theme must be light or dark")
				}
			}

			if err := application.UpdateSettings(st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Salvo: som=%s tema=%s\n", onOff(st.SoundEnabled), lightDark(st.LightTheme))
			return nil
		},
	}
	cmd.Flags().StringVar(&soundFlag, "sound", "", "on/off")
	cmd.Flags().StringVar(&themeFlag, "theme", "", "light/dark")
	return cmd
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func lightDark(light bool) string {
	if light {
		return "light"
	}
	return "dark"
}
