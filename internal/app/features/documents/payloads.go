package documents

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxNameLength = 255

// createFolderPayload is the body for POST .../folders.
type createFolderPayload struct {
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"` // empty means the category root
	Description string `json:"description,omitempty"`
}

func (p createFolderPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&p.ParentID, validation.By(optionalObjectID)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
	)
}

// renamePayload is the body for POST .../rename on folders and files.
type renamePayload struct {
	Name string `json:"name"`
}

func (p renamePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, maxNameLength)),
	)
}

// describePayload is the body for POST .../describe on folders and files.
// An empty description clears the note.
type describePayload struct {
	Description string `json:"description"`
}

func (p describePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Length(0, 2000)),
	)
}

// movePayload is the body for POST .../move on folders and files.
type movePayload struct {
	TargetID string `json:"target_id,omitempty"` // empty means the category root
}

func (p movePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TargetID, validation.By(optionalObjectID)),
	)
}
