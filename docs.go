package sbm

import (
	"encoding/json"

	"github.com/deepnoodle-ai/sbm/op"
)

// InstructionDoc describes one instruction of the machine.
type InstructionDoc struct {
	Mnemonic    string `json:"mnemonic"`
	Operand     string `json:"operand,omitempty"`
	Stack       string `json:"stack"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

var instructionDocs = []InstructionDoc{
	{"exit", "", "--", "Stop the machine.", "exit"},
	{"push", "<number> | m<0-9>", "-- x", "Push a literal, or the value held in a memory slot.", "push 3.5 / push m2"},
	{"pop", "m<0-9>", "x --", "Move the top of the stack into a memory slot.", "pop m0"},
	{"add", "", "b a -- a+b", "Pop a then b and push a + b.", "add"},
	{"sub", "", "b a -- a-b", "Pop a then b and push a - b.", "sub"},
	{"mul", "", "b a -- a*b", "Pop a then b and push a * b.", "mul"},
	{"div", "", "b a -- a/b", "Pop a then b and push a / b. Dividing by zero gives Infinity or NaN.", "div"},
	{"dec", "", "x -- x-1", "Decrement the top of the stack.", "dec"},
	{"label", "<name>", "--", "Declare a jump target. The first declaration of a name wins.", "label loop"},
	{"jmpz", "<name>", "x -- x", "Jump past the label when the top of the stack is zero. The value stays on the stack.", "jmpz done"},
	{"jmp", "<name>", "--", "Jump past the label.", "jmp loop"},
}

// Docs returns the instruction reference.
func Docs() []InstructionDoc {
	docs := make([]InstructionDoc, len(instructionDocs))
	copy(docs, instructionDocs)
	return docs
}

// DocFor returns the reference entry for a mnemonic.
func DocFor(mnemonic string) (InstructionDoc, bool) {
	if _, ok := op.Lookup(mnemonic); !ok {
		return InstructionDoc{}, false
	}
	for _, doc := range instructionDocs {
		if doc.Mnemonic == mnemonic {
			return doc, true
		}
	}
	return InstructionDoc{}, false
}

// DocsJSON returns the instruction reference as indented JSON.
func DocsJSON() string {
	data, _ := json.MarshalIndent(instructionDocs, "", "  ")
	return string(data)
}
