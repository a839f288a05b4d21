package runtime

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gojclass/classrun/internal/trace"
	"github.com/gojclass/classrun/pkg/classfile"
)

// Environment is the process-wide class registry and the shared
// context every Method invocation runs against: it resolves class
// names to loaded Classes, lazily parsing .class files from ClassPath
// on first reference (spec.md §4.4, §4.9).
type Environment struct {
	ClassPath string
	Out       io.Writer
	Log       *logrus.Logger
	Trace     trace.Sink

	classes map[string]*Class
}

// NewEnvironment builds an Environment rooted at classPath and
// installs the built-in classes (spec.md §4.4). log and sink default
// to a standard logrus.Logger and the build's trace.Default when nil.
func NewEnvironment(classPath string, out io.Writer, log *logrus.Logger, sink trace.Sink) *Environment {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if sink == nil {
		sink = trace.Default
	}
	env := &Environment{
		ClassPath: classPath,
		Out:       out,
		Log:       log,
		Trace:     sink,
		classes:   map[string]*Class{},
	}
	installBuiltins(env)
	return env
}

// LoadClass returns the Class named name, loading and linking it from
// ClassPath on first reference. Built-in classes installed by
// installBuiltins are returned directly from cache.
func (e *Environment) LoadClass(name string) (*Class, error) {
	if c, ok := e.classes[name]; ok {
		return c, nil
	}

	path := filepath.Join(e.ClassPath, name+".class")
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Errorf("class %s not found on classpath %s", name, e.ClassPath)
	}

	cf, err := classfile.ParseFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading class %s", name)
	}

	actualName, err := cf.ClassName()
	if err != nil {
		return nil, errors.Wrapf(err, "resolving class name for %s", path)
	}
	if actualName != name {
		e.Log.WithFields(logrus.Fields{"expected": name, "actual": actualName}).
			Warn("class file name does not match requested class")
	}

	super, err := cf.Pool.ClassName(cf.SuperClass)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving super class of %s", actualName)
	}
	superClass, err := e.LoadClass(super)
	if err != nil {
		return nil, errors.Wrapf(err, "loading super class %s of %s", super, actualName)
	}

	class := NewClass(actualName)
	class.File = cf
	class.Super = superClass

	for i := range cf.Methods {
		m := &cf.Methods[i]
		class.Methods[m.Name] = &Method{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			IsStatic:   m.AccessFlags&classfile.AccStatic != 0,
			Class:      class,
			Code:       m.Code,
		}
	}

	// Static fields are read-only in this subset (no <clinit>, no
	// putstatic) but getstatic still needs a slot to find; every
	// declared static field starts at Void.
	for _, f := range cf.Fields {
		if f.AccessFlags&classfile.AccStatic != 0 {
			class.StaticFields[f.Name] = Void
		}
	}

	e.classes[actualName] = class
	e.Log.WithField("class", actualName).Debug("loaded class")
	return class, nil
}

// register installs a fully formed built-in Class directly into the
// cache, bypassing classpath resolution.
func (e *Environment) register(c *Class) {
	e.classes[c.Name] = c
}
