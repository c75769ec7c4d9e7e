// Package forms validates the console's input forms before anything is sent
// to the backend. Messages are produced in English through the validator's
// translator.
package forms

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/existflow/rbacconsole/internal/model"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
	initErr  error
)

func setup() error {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})

		english := en.New()
		uni := ut.New(english, english)
		t, _ := uni.GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(v, t); err != nil {
			initErr = err
			return
		}

		// eqfield is only used for password confirmation
		initErr = v.RegisterTranslation("eqfield", t,
			func(ut ut.Translator) error {
				return ut.Add("eqfield", "Passwords do not match", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("eqfield")
				return msg
			},
		)
		validate, trans = v, t
	})
	return initErr
}

// Check validates form and returns the first problem as a readable error
func Check(form any) error {
	if err := setup(); err != nil {
		return err
	}
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Translate(trans))
	}
	return err
}

// CreateUser is the create-user form
type CreateUser struct {
	Name     string `label:"Name" validate:"required"`
	Email    string `label:"Email" validate:"required,email"`
	Confirm  string `label:"Confirm password" validate:"eqfield=Password"`
	Password string `label:"Password" validate:"required,min=6"`
	Role     string `label:"Role" validate:"required,oneof=ADMIN MANAGER EDITOR VIEWER"`
}

// NewCreateUser returns an empty form with the default role
func NewCreateUser() CreateUser {
	return CreateUser{Role: model.RoleViewer}
}

// Request validates f and builds the backend payload
func (f CreateUser) Request() (model.CreateUserRequest, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if err := Check(f); err != nil {
		return model.CreateUserRequest{}, err
	}
	return model.CreateUserRequest{Name: f.Name, Email: f.Email, Password: f.Password, Role: f.Role}, nil
}

// CreateProject is the create-project form
type CreateProject struct {
	Name        string   `label:"Project name" validate:"required"`
	Description string   `label:"Description"`
	Employees   []string `label:"Assigned employees" validate:"dive,required"`
}

// Toggle adds id to the assigned employees, or removes it if present
func (f *CreateProject) Toggle(id string) {
	for i, e := range f.Employees {
		if e == id {
			f.Employees = append(f.Employees[:i], f.Employees[i+1:]...)
			return
		}
	}
	f.Employees = append(f.Employees, id)
}

// Has reports whether id is assigned
func (f CreateProject) Has(id string) bool {
	for _, e := range f.Employees {
		if e == id {
			return true
		}
	}
	return false
}

// Request validates f and builds the backend payload
func (f CreateProject) Request() (model.CreateProjectRequest, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := Check(f); err != nil {
		return model.CreateProjectRequest{}, err
	}
	employees := append([]string{}, f.Employees...)
	return model.CreateProjectRequest{Name: f.Name, Description: f.Description, AssignedEmployees: employees}, nil
}

// CreateTask is the create-task form
type CreateTask struct {
	ProjectID   string   `label:"Project ID" validate:"required"`
	Title       string   `label:"Title" validate:"required"`
	Description string   `label:"Description"`
	Assignees   []string `label:"Assignees" validate:"dive,required"`
}

// Request validates f and builds the backend payload
func (f CreateTask) Request() (model.CreateTaskRequest, error) {
	f.ProjectID = strings.TrimSpace(f.ProjectID)
	f.Title = strings.TrimSpace(f.Title)
	if err := Check(f); err != nil {
		return model.CreateTaskRequest{}, err
	}
	return model.CreateTaskRequest{
		ProjectID:   f.ProjectID,
		Title:       f.Title,
		Description: f.Description,
		Assignees:   f.Assignees,
	}, nil
}

// Login is the sign-in form
type Login struct {
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required"`
}

// Validate trims and checks the login form
func (f *Login) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return Check(*f)
}
