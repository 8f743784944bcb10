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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/mapmap/InputParameters"
	"github.com/notargets/mapmap/convert"
	"github.com/notargets/mapmap/mapmap"
	"github.com/notargets/mapmap/utils"
)

var ErrRoundTrip = errors.New("round trip did not reproduce the input")

func NewRoundTripCmd(s *Settings) *cobra.Command {
	c := &cobra.Command{
		Use:   "roundtrip",
		Short: "Convert a job's matrix there and back and compare with the input",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var ip *InputParameters.ConversionParameters
			if ip, err = processInput(cmd, s); err != nil {
				return
			}
			return RunRoundTrip(cmd.OutOrStdout(), s, ip)
		},
	}
	addJobFlags(c)
	return c
}

func RunRoundTrip(w io.Writer, s *Settings, ip *InputParameters.ConversionParameters) (err error) {
	var same bool
	switch ip.Direction {
	case InputParameters.CSRToMapMap:
		var (
			tl *utils.TripletList
			M  *mapmap.Matrix
			A2 utils.CSR
		)
		if tl, err = ip.TripletList(); err != nil {
			return
		}
		if M, err = csrToMapMap(s, ip); err != nil {
			return
		}
		if A2, err = convert.ToCSR(M, ip.Rows, ip.Cols); err != nil {
			return
		}
		same = tl.Compress().Equal(A2)
	case InputParameters.MapMapToCSR:
		var (
			A  utils.CSR
			M  *mapmap.Matrix
			M2 *mapmap.Matrix
		)
		if A, M, err = mapMapToCSR(s, ip); err != nil {
			return
		}
		if M2, err = convert.ToMapMap(A, ip.BlockSize); err != nil {
			return
		}
		same = M.Equal(M2)
	}
	if !same {
		s.Logger.Warn("round trip mismatch", "title", ip.Title, "direction", ip.Direction)
		return fmt.Errorf("%s: %w", ip.Title, ErrRoundTrip)
	}
	fmt.Fprintf(w, "\"%s\": %s round trip exact\n", ip.Title, ip.Direction)
	return
}
