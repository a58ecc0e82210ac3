package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		formatName string
		writePath  string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Example: `  inn config
  inn config --format yaml
  inn config --write inn.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writePath != "" {
				if err := a.cfg.SaveConfig(writePath); err != nil {
					return err
				}
				a.log.Info("wrote %s", writePath)
				return nil
			}
			data, err := a.cfg.Encode(formatName)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "toml", "output format: toml or yaml")
	cmd.Flags().StringVar(&writePath, "write", "", "write the configuration to this file instead")
	return cmd
}
