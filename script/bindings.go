package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/milk9111/gameaudio/audio"
)

func bindings(host Host, logger *log.Logger) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("play", args, 0, 1)
		if err != nil {
			return nil, err
		}
		h, err := host.PlayCue(name)
		if err != nil {
			return nil, err
		}
		return handleObject(h), nil
	}}

	values["click"] = &tengo.UserFunction{Name: "click", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("click", args, 0, 1)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, host.ClickCue(name)
	}}

	values["loop"] = &tengo.UserFunction{Name: "loop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("loop", args, 0, 1)
		if err != nil {
			return nil, err
		}
		h, err := host.LoopCue(name)
		if err != nil {
			return nil, err
		}
		return handleObject(h), nil
	}}

	values["play_for"] = &tengo.UserFunction{Name: "play_for", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("play_for", args, 0, 2)
		if err != nil {
			return nil, err
		}
		d, err := secondsArg("play_for", args, 1)
		if err != nil {
			return nil, err
		}
		h, err := host.PlayCueFor(name, d)
		if err != nil {
			return nil, err
		}
		return handleObject(h), nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, ok := tengo.ToInt64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "handle", Expected: "int", Found: args[0].TypeName()}
		}
		if host.StopSound(audio.StopHandle(uint64(v))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["music"] = &tengo.UserFunction{Name: "music", Value: func(args ...tengo.Object) (tengo.Object, error) {
		track, err := stringArg("music", args, 0, 1)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, host.PlayMusic(track, 0)
	}}

	values["fade_in"] = &tengo.UserFunction{Name: "fade_in", Value: func(args ...tengo.Object) (tengo.Object, error) {
		track, err := stringArg("fade_in", args, 0, 2)
		if err != nil {
			return nil, err
		}
		d, err := secondsArg("fade_in", args, 1)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			d = audio.DefaultFadeDuration
		}
		return tengo.UndefinedValue, host.PlayMusic(track, d)
	}}

	values["fade_out"] = &tengo.UserFunction{Name: "fade_out", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		d, err := secondsArg("fade_out", args, 0)
		if err != nil {
			return nil, err
		}
		host.FadeOutMusic(d)
		return tengo.UndefinedValue, nil
	}}

	values["set_bus"] = &tengo.UserFunction{Name: "set_bus", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("set_bus", args, 0, 2)
		if err != nil {
			return nil, err
		}
		bus, ok := audio.ParseBus(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("set_bus: unknown bus %q", name)
		}
		linear, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "gain", Expected: "float", Found: args[1].TypeName()}
		}
		return tengo.UndefinedValue, host.SetBusGain(bus, linear)
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		logger.Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func handleObject(h audio.StopHandle) tengo.Object {
	return &tengo.Int{Value: int64(h)}
}

// stringArg checks that args has want entries and returns args[i] as a
// non-empty string.
func stringArg(fn string, args []tengo.Object, i, want int) (string, error) {
	if len(args) != want {
		return "", tengo.ErrWrongNumArguments
	}
	s := strings.TrimSpace(objectAsString(args[i]))
	if s == "" {
		return "", fmt.Errorf("%s: empty name", fn)
	}
	return s, nil
}

func secondsArg(fn string, args []tengo.Object, i int) (time.Duration, error) {
	secs, ok := tengo.ToFloat64(args[i])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: fn + " seconds", Expected: "float", Found: args[i].TypeName()}
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
