package syntax

import (
	"github.com/deepnoodle-ai/sbm/bytecode"
)

// UndefinedLabels reports jumps whose target label is never declared. Such a
// jump fails with a label-not-found error when it is taken.
func UndefinedLabels(program *bytecode.Program) []ValidationError {
	var errs []ValidationError
	for pc := 1; pc <= program.Len(); pc++ {
		target, ok := bytecode.JumpTarget(program.At(pc))
		if !ok {
			continue
		}
		if _, found := program.FindLabel(target); !found {
			errs = append(errs, finding(program, pc, SeverityError, "jump to undefined label %q", target))
		}
	}
	return errs
}

// DuplicateLabels reports label declarations that can never be a jump target
// because an earlier label has the same name.
func DuplicateLabels(program *bytecode.Program) []ValidationError {
	var errs []ValidationError
	first := map[string]int{}
	for pc := 1; pc <= program.Len(); pc++ {
		label, ok := program.At(pc).(bytecode.Label)
		if !ok {
			continue
		}
		if prev, seen := first[label.Name]; seen {
			errs = append(errs, finding(program, pc, SeverityWarning,
				"label %q already declared at line %d; jumps use the first declaration",
				label.Name, program.LineAt(prev)))
			continue
		}
		first[label.Name] = pc
	}
	return errs
}

// UnusedLabels reports labels no jump refers to.
func UnusedLabels(program *bytecode.Program) []ValidationError {
	targets := map[string]bool{}
	for pc := 1; pc <= program.Len(); pc++ {
		if target, ok := bytecode.JumpTarget(program.At(pc)); ok {
			targets[target] = true
		}
	}
	var errs []ValidationError
	reported := map[string]bool{}
	for pc := 1; pc <= program.Len(); pc++ {
		label, ok := program.At(pc).(bytecode.Label)
		if !ok || targets[label.Name] || reported[label.Name] {
			continue
		}
		reported[label.Name] = true
		errs = append(errs, finding(program, pc, SeverityWarning, "label %q is never used", label.Name))
	}
	return errs
}

// MissingExit reports programs without an exit instruction. They still
// terminate by running past their last instruction.
func MissingExit(program *bytecode.Program) []ValidationError {
	if program.Len() == 0 || program.Stats().HasExit {
		return nil
	}
	return []ValidationError{{
		Message:  "program has no exit instruction",
		Severity: SeverityWarning,
		Filename: program.Filename(),
	}}
}
