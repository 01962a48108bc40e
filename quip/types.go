package quip

import "encoding/json"

// Thread is the common part of a /threads response.
type Thread struct {
	Thread struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Link        string `json:"link"`
		Type        string `json:"type"`
		AuthorID    string `json:"author_id"`
		CreatedUsec int64  `json:"created_usec"`
		UpdatedUsec int64  `json:"updated_usec"`
	} `json:"thread"`
	HTML            string   `json:"html"`
	UserIDs         []string `json:"user_ids"`
	SharedFolderIDs []string `json:"shared_folder_ids"`
}

// FolderChild is either a thread or a sub-folder reference.
type FolderChild struct {
	ThreadID string `json:"thread_id,omitempty"`
	FolderID string `json:"folder_id,omitempty"`
}

// Folder is the common part of a /folders response.
type Folder struct {
	Folder struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Color       string `json:"color"`
		ParentID    string `json:"parent_id"`
		CreatorID   string `json:"creator_id"`
		CreatedUsec int64  `json:"created_usec"`
		UpdatedUsec int64  `json:"updated_usec"`
	} `json:"folder"`
	MemberIDs []string      `json:"member_ids"`
	Children  []FolderChild `json:"children"`
}

type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Emails          []string `json:"emails"`
	DesktopFolderID string   `json:"desktop_folder_id"`
	ArchiveFolderID string   `json:"archive_folder_id"`
	StarredFolderID string   `json:"starred_folder_id"`
	PrivateFolderID string   `json:"private_folder_id"`
	SharedFolderIDs []string `json:"shared_folder_ids"`
	GroupFolderIDs  []string `json:"group_folder_ids"`
	ProfilePicture  string   `json:"profile_picture_url"`
	CreatedUsec     int64    `json:"created_usec"`
}

type Message struct {
	ID          string `json:"id"`
	AuthorID    string `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Text        string `json:"text"`
	CreatedUsec int64  `json:"created_usec"`
	UpdatedUsec int64  `json:"updated_usec"`
	// Parts and Files are kept raw; their shape varies by message kind.
	Parts json.RawMessage `json:"parts,omitempty"`
	Files json.RawMessage `json:"files,omitempty"`
}
