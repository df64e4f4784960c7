package ledger

import "context"

// Account is the stored content of one ledger address.
type Account struct {
	Address    Address
	Owner      Address
	Executable bool
	Data       []byte
}

func (a *Account) clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AccountMeta names an account taking part in an instruction.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// AccountInfo is the view of an account handed to a program. Data may be
// modified in place; the ledger persists it only if the program succeeds.
type AccountInfo struct {
	Address    Address
	Owner      Address
	IsSigner   bool
	IsWritable bool
	Data       []byte
}

// Instruction is one program invocation.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Program is native code deployed at an address.
type Program interface {
	Process(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) Process(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error {
	return f(ctx, programID, accounts, data)
}
