package tasks

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controllers.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type AuthControllerRoutes struct {
	Register string
	Login    string
}

// AuthController exposes registration and login as JSON endpoints.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       Authenticator
	ErrorHandler func(router.Context, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: WriteJSONError,
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuthControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the public auth endpoints. Neither route sits
// behind the access guard.
func RegisterAuthRoutes(app RouteRegistrar, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)

	return controller
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterUserMessage)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var record *User
	payload.OnResponse = func(u *User) {
		record = u
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(ctx.Context(), *payload); err != nil {
		a.Logger.Error("register user execute: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"id":       record.ID,
		"username": record.Username,
		"email":    record.Email,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	if err := goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Email, validation.Required, is.Email),
			validation.Field(&r.Password, validation.Required),
		)
	}, "Invalid login payload"); err != nil {
		return err
	}
	return nil
}

// LoginPost authenticates the payload credentials and returns a signed
// session token. Every credential failure collapses into the same 401;
// the response never says whether the email exists.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, identity, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			switch richErr.Category {
			// infrastructure failures keep their category so they come
			// back as a 500, not as a credentials failure
			case goerrors.CategoryValidation, goerrors.CategoryInternal, goerrors.CategoryOperation:
				return a.ErrorHandler(ctx, err)
			}
		}
		a.Logger.Info("login rejected", "error", err)
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"access_token": token,
		"user": map[string]any{
			"id":       identity.ID(),
			"username": identity.Username(),
			"email":    identity.Email(),
		},
	})
}

type TasksControllerRoutes struct {
	Collection string
	Item       string
}

// TasksController serves the owned task collection. All routes require
// the access guard; the acting user comes from the request context.
type TasksController struct {
	Logger       Logger
	Repo         RepositoryManager
	Routes       *TasksControllerRoutes
	ErrorHandler func(router.Context, error) error
}

type TasksControllerOption func(*TasksController) *TasksController

func NewTasksController(opts ...TasksControllerOption) *TasksController {
	c := &TasksController{
		Logger:       defLogger{},
		ErrorHandler: WriteJSONError,
		Routes: &TasksControllerRoutes{
			Collection: "/tasks",
			Item:       "/tasks/:id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in tasks controller...")
	}

	return c
}

func WithTasksControllerRepo(repo RepositoryManager) TasksControllerOption {
	return func(c *TasksController) *TasksController {
		c.Repo = repo
		return c
	}
}

func WithTasksControllerLogger(logger Logger) TasksControllerOption {
	return func(c *TasksController) *TasksController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// RegisterTaskRoutes mounts the task endpoints behind the given guard.
func RegisterTaskRoutes(app RouteRegistrar, guard router.MiddlewareFunc, opts ...TasksControllerOption) *TasksController {
	controller := NewTasksController(opts...)

	app.Get(controller.Routes.Collection, controller.List, guard)
	app.Post(controller.Routes.Collection, controller.Create, guard)
	app.Get(controller.Routes.Item, controller.Show, guard)
	app.Put(controller.Routes.Item, controller.Update, guard)
	app.Delete(controller.Routes.Item, controller.Delete, guard)

	return controller
}

func (t *TasksController) List(ctx router.Context) error {
	actorID, ok := ActingUser(ctx.Context())
	if !ok {
		return t.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	records, err := t.Repo.Tasks().FindByOwner(ctx.Context(), actorID)
	if err != nil {
		t.Logger.Error("task list: ", "error", err)
		return t.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"tasks": records,
	})
}

func (t *TasksController) Create(ctx router.Context) error {
	actorID, ok := ActingUser(ctx.Context())
	if !ok {
		return t.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	payload := new(CreateTaskMessage)
	if err := ctx.Bind(payload); err != nil {
		return t.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	payload.ActingUserID = actorID

	var record *Task
	payload.OnResponse = func(r *Task) {
		record = r
	}

	handler := NewCreateTaskHandler(t.Repo)
	if err := handler.Execute(ctx.Context(), *payload); err != nil {
		return t.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, record)
}

func (t *TasksController) Show(ctx router.Context) error {
	actorID, ok := ActingUser(ctx.Context())
	if !ok {
		return t.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	taskID, err := parseTaskID(ctx)
	if err != nil {
		return t.ErrorHandler(ctx, err)
	}

	record, err := t.Repo.Tasks().GetOwned(ctx.Context(), taskID, actorID)
	if err != nil {
		return t.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

func (t *TasksController) Update(ctx router.Context) error {
	actorID, ok := ActingUser(ctx.Context())
	if !ok {
		return t.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	taskID, err := parseTaskID(ctx)
	if err != nil {
		return t.ErrorHandler(ctx, err)
	}

	payload := new(UpdateTaskMessage)
	if err := ctx.Bind(payload); err != nil {
		return t.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	payload.ActingUserID = actorID
	payload.TaskID = taskID

	var record *Task
	payload.OnResponse = func(r *Task) {
		record = r
	}

	handler := NewUpdateTaskHandler(t.Repo)
	if err := handler.Execute(ctx.Context(), *payload); err != nil {
		return t.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

func (t *TasksController) Delete(ctx router.Context) error {
	actorID, ok := ActingUser(ctx.Context())
	if !ok {
		return t.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	taskID, err := parseTaskID(ctx)
	if err != nil {
		return t.ErrorHandler(ctx, err)
	}

	handler := NewDeleteTaskHandler(t.Repo)
	if err := handler.Execute(ctx.Context(), DeleteTaskMessage{
		ActingUserID: actorID,
		TaskID:       taskID,
	}); err != nil {
		return t.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"deleted": taskID,
	})
}

func parseTaskID(ctx router.Context) (int64, error) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerrors.New("invalid task id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"id": raw})
	}
	return id, nil
}
