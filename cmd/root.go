/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings are shared by all commands of one command tree. Values come from
// flags, MAPMAP_* environment variables and the config file, in that order.
type Settings struct {
	V       *viper.Viper
	CfgFile string
	Logger  *slog.Logger
	prof    interface{ Stop() }
}

var rootCmd = NewRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	s := &Settings{
		V:      viper.New(),
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	root := &cobra.Command{
		Use:   "mapmap",
		Short: "Convert block sparse nested matrices to and from compressed sparse row form",
		Long: `
Converts between a nested sparse matrix (row -> column -> block of B scalars)
and a compressed sparse row matrix whose block columns are expanded into B
consecutive scalar columns.

mapmap convert -I job.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.initConfig(); err != nil {
				return err
			}
			if err := s.initLogger(cmd); err != nil {
				return err
			}
			if s.V.GetBool("profile") {
				s.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.prof != nil {
				s.prof.Stop()
				s.prof = nil
			}
		},
	}
	root.PersistentFlags().StringVar(&s.CfgFile, "config", "", "config file (default is $HOME/.mapmap.yaml)")
	root.PersistentFlags().String("logLevel", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().Bool("profile", false, "write a CPU profile into the working directory")
	_ = s.V.BindPFlag("logLevel", root.PersistentFlags().Lookup("logLevel"))
	_ = s.V.BindPFlag("profile", root.PersistentFlags().Lookup("profile"))

	root.AddCommand(NewConvertCmd(s), NewRoundTripCmd(s))
	return root
}

// initConfig reads in config file and ENV variables if set.
func (s *Settings) initConfig() error {
	if s.CfgFile != "" {
		// Use config file from the flag.
		s.V.SetConfigFile(s.CfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		// Search config in home directory with name ".mapmap" (without extension).
		s.V.AddConfigPath(home)
		s.V.SetConfigName(".mapmap")
	}
	s.V.SetEnvPrefix("MAPMAP")
	s.V.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := s.V.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && s.CfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (s *Settings) initLogger(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.V.GetString("logLevel"))); err != nil {
		return err
	}
	s.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if f := s.V.ConfigFileUsed(); f != "" {
		s.Logger.Debug("using config file", "path", f)
	}
	return nil
}
