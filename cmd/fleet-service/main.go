package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/asignacion"
	"github.com/FlotaEquipos/FlotaEquipos/internal/centrocosto"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/config"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/db"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/middleware"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/server"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/tracing"
	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/FlotaEquipos/FlotaEquipos/internal/mantenimiento"
	"github.com/FlotaEquipos/FlotaEquipos/internal/proyecto"
	"github.com/joho/godotenv"
)

var (
	configPath = flag.String("config", "configs/fleet-service.json", "配置文件路径")
	consulKey  = flag.String("consul-kv", "", "从 Consul KV 加载配置的 key（设置后忽略 -config）")
)

func main() {
	flag.Parse()

	// 本地开发用 .env 覆盖环境变量，文件不存在时静默跳过
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	applyEnvOverrides(cfg)

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪，InitTracer 内部已设置全局 tracer
	if _, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	); err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&equipo.Equipo{},
		&proyecto.Proyecto{},
		&centrocosto.CentroCosto{},
		&mantenimiento.Registro{},
		&asignacion.Asignacion{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 仓储 + 用例
	equipoRepo := equipo.NewRepo(gormDB)
	proyectoRepo := proyecto.NewRepo(gormDB)
	centroRepo := centrocosto.NewRepo(gormDB)
	mantRepo := mantenimiento.NewRepo(gormDB)
	asignacionRepo := asignacion.NewRepo(gormDB)

	svc := asignacion.NewService(asignacionRepo, nil)
	scanner := asignacion.NewScanner(
		asignacionRepo,
		log.WithField("component", "alert-scanner"),
		cfg.Alertas.LeadDays,
		cfg.Alertas.UmbralesHoras,
		nil,
	)

	// 路由
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	equipo.NewHandler(equipoRepo, log).RegisterRoutes(mux)
	proyecto.NewHandler(proyectoRepo, log).RegisterRoutes(mux)
	centrocosto.NewHandler(centroRepo, log).RegisterRoutes(mux)
	mantenimiento.NewHandler(mantRepo, log).RegisterRoutes(mux)
	asignacion.NewHandler(svc, scanner, log).RegisterRoutes(mux)

	// 中间件链：panic 恢复最外层，然后链路追踪、访问日志、限流
	bucket := middleware.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	handler := server.Chain(
		server.Recovery(log),
		server.Tracing(cfg.Server.Name),
		server.AccessLog(log),
		server.Middleware(middleware.RateLimit(bucket)),
	)(mux)

	// 后台告警扫描
	scanCtx, stopScan := context.WithCancel(context.Background())
	defer stopScan()
	go scanner.Run(scanCtx, time.Duration(cfg.Alertas.ScanIntervalSeconds)*time.Second)

	if err := server.RunHTTPServer(cfg, log, handler); err != nil {
		log.Fatalf("fleet-service exited with error: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	if *consulKey != "" {
		host := os.Getenv("CONSUL_HOST")
		if host == "" {
			host = "localhost"
		}
		port := 8500
		if raw := os.Getenv("CONSUL_PORT"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				port = v
			}
		}
		return config.LoadConfigFromConsulKV(host, port, *consulKey)
	}
	return config.LoadConfig(*configPath)
}

// applyEnvOverrides 数据库凭据优先取环境变量，避免写进配置文件。
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if raw := os.Getenv("DB_PORT"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.Database.Port = v
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Database = v
	}
}
