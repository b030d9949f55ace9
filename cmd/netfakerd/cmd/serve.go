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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/golang/glog"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netfaker/netfaker/dispatch"
	"github.com/netfaker/netfaker/frontend"
	"github.com/netfaker/netfaker/handlers/junos"
	"github.com/netfaker/netfaker/manager"
	"github.com/netfaker/netfaker/stub"
)

func newServeCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the manager and its stub protocol front-ends.",
		RunE:  runServe,
	}
	serve.Flags().String("project_dir", ".", "Directory holding stubs/, yangs/, and module/.")
	serve.Flags().String("manager_addr", "127.0.0.1:8080", "Listen address for the manager REST control boundary.")
	serve.Flags().String("http_addr", "", "Listen address for the HTTP/HTTPS stub front-end (empty disables it).")
	serve.Flags().String("http_stub_id", "", "Stub id the HTTP/HTTPS front-end on http_addr forwards to.")
	serve.Flags().Duration("shutdown_timeout", 10*time.Second, "Time allowed for in-flight requests to drain on shutdown.")
	return serve
}

// registerHandlers is the data-driven decision table spec.md's hot-reload
// design note calls for: every supported device profile is registered by
// name here at process start.
func registerHandlers(r *dispatch.HandlerRegistry) {
	r.Register("junos", junos.Handler{})
}

func runServe(cmd *cobra.Command, args []string) error {
	projectDir := viper.GetString("project_dir")
	managerAddr := viper.GetString("manager_addr")
	httpAddr := viper.GetString("http_addr")
	httpStubID := viper.GetString("http_stub_id")
	shutdownTimeout := viper.GetDuration("shutdown_timeout")

	yangsDir := filepath.Join(projectDir, "yangs")
	moduleDir := filepath.Join(projectDir, "module")
	stubsYAMLPath := filepath.Join(projectDir, "stubs", "stubs.yaml")

	stubs := stub.NewRepository()
	yangs := dispatch.NewYangTreeRepository()
	if err := yangs.ReloadFromDisk(yangsDir); err != nil {
		return fmt.Errorf("loading yang trees: %w", err)
	}

	handlers := dispatch.NewHandlerRegistry()
	registerHandlers(handlers)

	yangDetector, err := dispatch.NewChangeDetector(yangsDir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", yangsDir, err)
	}
	defer yangDetector.Close()

	moduleDetector, err := dispatch.NewChangeDetector(moduleDir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", moduleDir, err)
	}
	defer moduleDetector.Close()

	dispatcher := &dispatch.Dispatcher{
		Stubs:          stubs,
		Yangs:          yangs,
		Handlers:       handlers,
		YangsDir:       yangsDir,
		ModuleDetector: moduleDetector,
		YangDetector:   yangDetector,
	}

	fs := afero.NewOsFs()
	srv := manager.NewServer(stubs, yangs, dispatcher, fs, stubsYAMLPath)

	if data, err := readBootstrapStubs(fs, stubsYAMLPath); err != nil {
		return fmt.Errorf("loading %s: %w", stubsYAMLPath, err)
	} else if len(data) > 0 {
		if err := stubs.Add(data...); err != nil {
			return fmt.Errorf("registering declarative stubs: %w", err)
		}
	}

	managerSrv := &http.Server{Addr: managerAddr, Handler: srv.Handler()}

	var wg conc.WaitGroup
	wg.Go(func() {
		log.Infof("netfakerd: manager listening on %s", managerAddr)
		if err := managerSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("netfakerd: manager server: %v", err)
		}
	})

	var httpSrv *http.Server
	if httpAddr != "" {
		if httpStubID == "" {
			return fmt.Errorf("http_addr is set but http_stub_id is empty")
		}
		client := frontend.NewClient("http://" + managerAddr)
		fe := frontend.NewHTTPFrontend(httpStubID, client, false)
		httpSrv = &http.Server{Addr: httpAddr, Handler: fe.Handler()}
		wg.Go(func() {
			log.Infof("netfakerd: http stub front-end listening on %s", httpAddr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("netfakerd: http front-end server: %v", err)
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Infof("netfakerd: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Warningf("netfakerd: http front-end shutdown: %v", err)
		}
	}
	if err := managerSrv.Shutdown(ctx); err != nil {
		log.Warningf("netfakerd: manager shutdown: %v", err)
	}
	wg.Wait()
	return nil
}

func readBootstrapStubs(fs afero.Fs, path string) ([]*stub.Stub, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return stub.LoadDeclarative(data)
}
