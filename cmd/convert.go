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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/mapmap/InputParameters"
	"github.com/notargets/mapmap/convert"
	"github.com/notargets/mapmap/mapmap"
	"github.com/notargets/mapmap/utils"
)

const exampleJob = `
########################################
Title: "Vec3 constraint"
Direction: mapmap-to-csr # or csr-to-mapmap, reading Triplets
BlockSize: 3
Cols: 12
Entries:
  3:
    1: [0.1, 0.2, 0.3]
########################################
`

func NewConvertCmd(s *Settings) *cobra.Command {
	c := &cobra.Command{
		Use:   "convert",
		Short: "Convert a matrix described in a YAML job file",
		Long:  `Convert a matrix described in a YAML job file and print the result`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var ip *InputParameters.ConversionParameters
			if ip, err = processInput(cmd, s); err != nil {
				return
			}
			dense, _ := cmd.Flags().GetBool("dense")
			return RunConvert(cmd.OutOrStdout(), s, ip, dense)
		},
	}
	addJobFlags(c)
	c.Flags().Bool("dense", false, "also print the compressed matrix in dense form")
	return c
}

func addJobFlags(c *cobra.Command) {
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML job file")
	c.Flags().IntP("blockSize", "b", 0, "block size, overrides the job's BlockSize")
	c.Flags().Bool("fillPartialBlocks", false, "zero fill blocks stored only in part instead of failing")
}

// jobOverrides applies blockSize and fillPartialBlocks from the running
// command's flags, else from the config file or environment.
func jobOverrides(cmd *cobra.Command, s *Settings, ip *InputParameters.ConversionParameters) (err error) {
	f := cmd.Flags()
	switch {
	case f.Changed("blockSize"):
		if ip.BlockSize, err = f.GetInt("blockSize"); err != nil {
			return
		}
	case s.V.IsSet("blockSize"):
		ip.BlockSize = s.V.GetInt("blockSize")
	}
	switch {
	case f.Changed("fillPartialBlocks"):
		if ip.FillPartialBlocks, err = f.GetBool("fillPartialBlocks"); err != nil {
			return
		}
	case s.V.IsSet("fillPartialBlocks"):
		ip.FillPartialBlocks = s.V.GetBool("fillPartialBlocks")
	}
	return
}

func processInput(cmd *cobra.Command, s *Settings) (ip *InputParameters.ConversionParameters, err error) {
	var (
		file string
		data []byte
	)
	if file, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(file) == 0 {
		err = fmt.Errorf("must supply a job file (-I, --inputConditionsFile), for example:%s", exampleJob)
		return
	}
	if data, err = os.ReadFile(file); err != nil {
		return
	}
	ip = &InputParameters.ConversionParameters{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", file, err)
		return
	}
	if err = jobOverrides(cmd, s, ip); err != nil {
		return
	}
	if err = ip.Validate(); err != nil {
		err = fmt.Errorf("%s: %w", file, err)
		return
	}
	s.Logger.Info("job loaded", "file", file, "title", ip.Title, "direction", ip.Direction,
		"blockSize", ip.BlockSize)
	if s.Logger.Enabled(context.Background(), slog.LevelDebug) {
		var sb strings.Builder
		ip.Fprint(&sb)
		s.Logger.Debug("job parameters\n" + sb.String())
	}
	return
}

func RunConvert(w io.Writer, s *Settings, ip *InputParameters.ConversionParameters, dense bool) (err error) {
	switch ip.Direction {
	case InputParameters.CSRToMapMap:
		var M *mapmap.Matrix
		if M, err = csrToMapMap(s, ip); err != nil {
			return
		}
		fmt.Fprint(w, M)
	case InputParameters.MapMapToCSR:
		var A utils.CSR
		if A, _, err = mapMapToCSR(s, ip); err != nil {
			return
		}
		fmt.Fprint(w, A)
		if nr, nc := A.Dims(); dense && nr*nc != 0 {
			fmt.Fprintf(w, "%v\n", mat.Formatted(A.ToDense(), mat.Squeeze()))
		}
	}
	return
}

func csrToMapMap(s *Settings, ip *InputParameters.ConversionParameters) (M *mapmap.Matrix, err error) {
	var tl *utils.TripletList
	if tl, err = ip.TripletList(); err != nil {
		return
	}
	A := tl.Compress().Named(ip.Title)
	var opts []convert.Option
	if ip.FillPartialBlocks {
		opts = append(opts, convert.WithFillPartialBlocks())
	}
	if M, err = convert.ToMapMap(A, ip.BlockSize, opts...); err != nil {
		return
	}
	s.Logger.Debug("converted to nested", "nnz", A.NNZ(), "rows", M.NumRows(), "entries", M.NumEntries())
	return
}

func mapMapToCSR(s *Settings, ip *InputParameters.ConversionParameters) (A utils.CSR, M *mapmap.Matrix, err error) {
	if M, err = ip.MapMap(); err != nil {
		return
	}
	if ip.Rows == 0 {
		A, err = convert.ToCSRInferRows(M, ip.Cols, convert.WithName(ip.Title))
	} else {
		A, err = convert.ToCSR(M, ip.Rows, ip.Cols, convert.WithName(ip.Title))
	}
	if err != nil {
		return
	}
	s.Logger.Debug("converted to CSR", "entries", M.NumEntries(), "nnz", A.NNZ())
	return
}
