package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	tasks "github.com/goliatone/go-tasks"
	"github.com/goliatone/go-tasks/cmd/tasksd/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   tasks.RepositoryManager
	auth   tasks.Authenticator
	auther *tasks.RouteAuthenticator
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("tasksd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := gconfig.New(&config.BaseConfig{})
	if err != nil {
		panic(err)
	}
	cfg.WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetDebug() {
		fmt.Println(print.MaybePrettyJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPAuth(ctx, app); err != nil {
		panic(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()

	if err := app.bunDB.Close(); err != nil {
		app.GetLogger("persistence").Error("close db", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []any{(*tasks.User)(nil), (*tasks.Task)(nil)} {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create tables")
		}
	}

	repo := tasks.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = repo

	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetName(),
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	app.srv = srv

	return nil
}

func WithHTTPAuth(_ context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	userProvider := tasks.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	authenticator := tasks.NewAuthenticator(userProvider, cfg)
	authenticator.WithLogger(app.GetLogger("auth"))

	auther, err := tasks.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}
	auther.WithLogger(app.GetLogger("auth:http"))

	app.auth = authenticator
	app.auther = auther

	return nil
}

func RegisterRoutes(app *App) {
	r := app.srv.Router()
	cfg := app.Config().GetAuth()

	api := r.Group("/api")

	tasks.RegisterAuthRoutes(api,
		tasks.WithAuthControllerRepo(app.repo),
		tasks.WithAuthControllerAuther(app.auth),
		tasks.WithAuthControllerLogger(app.GetLogger("ctrl:auth")),
		tasks.WithAuthControllerDebug(app.Config().GetDebug()),
	)

	protected := app.auther.ProtectedRoute(cfg, app.auther.MakeAPIAuthErrorHandler(false))

	tasks.RegisterTaskRoutes(api, protected,
		tasks.WithTasksControllerRepo(app.repo),
		tasks.WithTasksControllerLogger(app.GetLogger("ctrl:tasks")),
	)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
