package ast

type (
	// главные сущности
	FileID uint32
	ItemID uint32
	TypeID uint32
	// подсущности
	PayloadID   uint32
	FnParamID   uint32
	TypeParamID uint32
	FieldID     uint32
)

const (
	NoFileID      FileID      = 0
	NoItemID      ItemID      = 0
	NoTypeID      TypeID      = 0
	NoPayloadID   PayloadID   = 0
	NoFnParamID   FnParamID   = 0
	NoTypeParamID TypeParamID = 0
	NoFieldID     FieldID     = 0
)

func (id FileID) IsValid() bool      { return id != NoFileID }
func (id ItemID) IsValid() bool      { return id != NoItemID }
func (id TypeID) IsValid() bool      { return id != NoTypeID }
func (id PayloadID) IsValid() bool   { return id != NoPayloadID }
func (id FnParamID) IsValid() bool   { return id != NoFnParamID }
func (id TypeParamID) IsValid() bool { return id != NoTypeParamID }
func (id FieldID) IsValid() bool     { return id != NoFieldID }
