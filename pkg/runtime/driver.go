package runtime

import "github.com/pkg/errors"

// RunMain loads className through env (parsed from env.ClassPath on
// first reference), resolves methodName on it (static, no-argument — this subset models no String[] args
// plumbing), and runs it to completion (spec.md §2 item 9, §4.9).
func RunMain(env *Environment, className, methodName string) (Value, error) {
	class, err := env.LoadClass(className)
	if err != nil {
		return Value{}, errors.Wrap(err, "loading entry class")
	}
	method := class.FindMethod(methodName)
	if method == nil {
		return Value{}, errors.Errorf("class %s has no method named %s", className, methodName)
	}
	if !method.IsStatic {
		return Value{}, errors.Errorf("%s.%s is not static: only static entry methods are supported", className, methodName)
	}
	result, err := Invoke(env, method, nil)
	if err != nil {
		return Value{}, errors.Wrapf(err, "executing %s.%s", className, methodName)
	}
	return result, nil
}
