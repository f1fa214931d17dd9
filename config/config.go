package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/flashbots/ethcall/utils"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log *Log `yaml:"log"`

	Client *Client `yaml:"client"`
	Server *Server `yaml:"server"`

	Metrics *Metrics `yaml:"metrics"`
}

func New() *Config {
	return &Config{
		Log: &Log{},

		Client: &Client{},
		Server: &Server{},

		Metrics: &Metrics{},
	}
}

type validatee interface {
	Validate() error
}

var (
	errConfigFailedToRead  = errors.New("failed to read config file")
	errConfigFailedToParse = errors.New("failed to parse config file")
)

// Load overlays the yaml file at path on top of whatever the config
// already holds. Keys absent from the file keep their current values.
func (c *Config) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w",
			errConfigFailedToRead, path, err,
		)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("%w: %s: %w",
			errConfigFailedToParse, path, err,
		)
	}

	return nil
}

func (c *Config) Validate() error {
	return validate(c)
}

// ValidateAll validates only the given sections, for commands that do not
// use the whole config.
func ValidateAll(sections ...validatee) error {
	errs := make([]error, 0, len(sections))
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return utils.FlattenErrors(errs)
}

func validate(item interface{}) error {
	v := reflect.ValueOf(item)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	errs := []error{}
	for idx := 0; idx < v.NumField(); idx++ {
		field := v.Field(idx)

		if !field.CanInterface() {
			continue
		}

		if field.Kind() == reflect.Ptr && field.IsNil() {
			continue
		}

		if v, ok := field.Interface().(validatee); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}

		if field.Kind() == reflect.Ptr {
			field = field.Elem()
		}

		switch field.Kind() {
		case reflect.Struct:
			if err := validate(field.Interface()); err != nil {
				errs = append(errs, err)
			}
		case reflect.Slice, reflect.Array:
			for jdx := 0; jdx < field.Len(); jdx++ {
				if err := validate(field.Index(jdx).Interface()); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}
