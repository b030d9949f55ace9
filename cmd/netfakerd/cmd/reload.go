// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReloadCmd() *cobra.Command {
	reload := &cobra.Command{
		Use:   "reload",
		Short: "Ask a running manager to reload /stubs/stubs.yaml.",
		RunE:  runReload,
	}
	reload.Flags().String("manager_addr", "127.0.0.1:8080", "Address of the running manager.")
	return reload
}

func runReload(cmd *cobra.Command, args []string) error {
	managerAddr := viper.GetString("manager_addr")
	url := fmt.Sprintf("http://%s/stubs:reload", managerAddr)
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", managerAddr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reload request to %s returned %s", managerAddr, resp.Status)
	}
	return nil
}
