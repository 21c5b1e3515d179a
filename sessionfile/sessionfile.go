package sessionfile

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"strconv"
	"time"
)

type Response struct {
	Expect string
	Send   string
}

type Session struct {
	Name        string
	Description string
	Command     string
	Env         map[string]string
	Dir         string
	Shell       string
	ShellArgs   []string `yaml:"shell_args"`
	Timeout     Duration
	Interval    Duration
	ChunkSize   int    `yaml:"chunk_size"`
	Transport   string
	AutoNewline *bool `yaml:"auto_newline"`
	Responses   []Response
}

type Sessionfile struct {
	Sessions []Session
}

// Duration accepts Go duration strings ("1m30s") as well as bare numbers of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*d = 0
		return nil
	}

	if value.Tag == "!!int" || value.Tag == "!!float" {
		seconds, err := strconv.ParseFloat(value.Value, 64)

		if err != nil {
			return errors.Wrapf(err, "invalid duration: %s", value.Value)
		}

		*d = Duration(seconds * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)

	if err != nil {
		return errors.Wrapf(err, "invalid duration at line %d", value.Line)
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func Load(bytes []byte) (*Sessionfile, error) {
	sessionfile := &Sessionfile{}
	err := yaml.Unmarshal(bytes, sessionfile)

	if err != nil {
		return nil, errors.Wrap(err, "unable to parse yaml")
	}

	err = validate(sessionfile)

	if err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return sessionfile, nil
}

func (f *Sessionfile) Find(name string) (Session, bool) {
	for _, s := range f.Sessions {
		if s.Name == name {
			return s, true
		}
	}

	return Session{}, false
}

func validate(sessionfile *Sessionfile) error {
	if len(sessionfile.Sessions) == 0 {
		return errors.Errorf("one or more sessions required")
	}

	seen := map[string]bool{}

	for i, session := range sessionfile.Sessions {
		err := validateSession(session)

		if err == nil && seen[session.Name] {
			err = errors.New("name is already used")
		}

		if err != nil {
			return errors.Wrapf(err, "validation failed for session: %s at %d", session.Name, i)
		}

		seen[session.Name] = true
	}

	return nil
}

func validateSession(session Session) error {
	if session.Name == "" {
		return errors.New("name is required")
	}

	if session.Command == "" {
		return errors.New("command is required")
	}

	_, err := executor.ParseTransport(session.Transport)

	if err != nil {
		return err
	}

	if session.ChunkSize < 0 {
		return errors.Errorf("chunk_size must not be negative: %d", session.ChunkSize)
	}

	if session.Timeout < 0 {
		return errors.Errorf("timeout must not be negative: %s", session.Timeout.Duration())
	}

	if session.Interval < 0 {
		return errors.Errorf("interval must not be negative: %s", session.Interval.Duration())
	}

	return nil
}
