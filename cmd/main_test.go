package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/mmilab/mmi/internal/adapters/http/api"
	"github.com/mmilab/mmi/internal/adapters/http/swagger"
	app "github.com/mmilab/mmi/internal/app"
	"github.com/mmilab/mmi/internal/config"
	"github.com/mmilab/mmi/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("MMI_ADDR", ":8080")
			_ = os.Setenv("MMI_QUEUE_SIZE", "1000")
			_ = os.Setenv("MMI_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("MMI_ADDR")
				_ = os.Unsetenv("MMI_QUEUE_SIZE")
				_ = os.Unsetenv("MMI_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithLeverageCacheSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given the application components", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc := app.New(app.WithWorkerCount(2))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When wiring the HTTP mux", func() {
			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			apiServer := api.NewServer(svc, svc, 100)
			apiServer.Register(ctx, mux)

			convey.Convey("Then the health endpoint responds", func() {
				req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the stats endpoint responds", func() {
				req := httptest.NewRequest(http.MethodGet, "/stats", nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the API documentation responds", func() {
				req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When building the HTTP server", func() {
			srv := &http.Server{
				Addr:              ":0",
				Handler:           http.NewServeMux(),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then it carries the hardening timeouts", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, 5*time.Second)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updater helpers", t, func() {
		convey.Convey("Then updating system metrics should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And updating service metrics should not panic", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			svc := app.New(app.WithWorkerCount(1))
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
