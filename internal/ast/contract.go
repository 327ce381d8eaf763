package ast

import "skarn/internal/source"

// ContractItem declares a contract: a named set of method signatures that
// implementing types must provide. Methods are FnItem entries without bodies.
type ContractItem struct {
	Name       source.StringID
	NameSpan   source.Span
	IsPub      bool
	TypeParams []TypeParamID
	Fns        []ItemID
	Span       source.Span
}

func (i *Items) Contract(id ItemID) (*ContractItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemContract {
		return nil, false
	}
	return i.Contracts.Get(uint32(item.Payload)), true
}

func (i *Items) NewContract(c ContractItem) ItemID {
	payload := PayloadID(i.Contracts.Allocate(c))
	return i.New(ItemContract, c.Span, payload)
}
