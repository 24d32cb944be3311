package metadata

import (
	"strconv"
)

// SettingsFileName returns the source file name for a settings type, e.g. "LightningExperience".
func SettingsFileName(settingsName string) string {
	return settingsName + ".settings-meta.xml"
}

// PermissionSetFileName returns the source file name for a permission set.
func PermissionSetFileName(name string) string {
	return name + ".permissionset-meta.xml"
}

// LightningExperienceSettings selects the active Lightning Experience theme.
func LightningExperienceSettings(activeThemeName string) Document {
	return Document{
		Type:      "LightningExperienceSettings",
		Namespace: Namespace,
		Fields:    []Field{Text("activeThemeName", activeThemeName)},
	}
}

// ObjectPermission grants access to one sObject. Only granted flags are emitted.
type ObjectPermission struct {
	Object           string
	AllowCreate      bool
	AllowDelete      bool
	AllowEdit        bool
	AllowRead        bool
	ModifyAllRecords bool
	ViewAllRecords   bool
}

// PermissionSetSpec describes a permission set document.
type PermissionSetSpec struct {
	Label                 string
	Description           string
	HasActivationRequired bool
	ObjectPermissions     []ObjectPermission
}

// PermissionSet builds a PermissionSet document. Elements follow the platform's alphabetical order.
func PermissionSet(spec PermissionSetSpec) Document {
	fields := make([]Field, 0, 3+len(spec.ObjectPermissions))
	if spec.Description != "" {
		fields = append(fields, Text("description", spec.Description))
	}
	fields = append(fields,
		Text("hasActivationRequired", strconv.FormatBool(spec.HasActivationRequired)),
		Text("label", spec.Label),
	)
	for _, op := range spec.ObjectPermissions {
		fields = append(fields, objectPermissionField(op))
	}
	return Document{Type: "PermissionSet", Namespace: Namespace, Fields: fields}
}

func objectPermissionField(op ObjectPermission) Field {
	var children []Field
	flag := func(name string, on bool) {
		if on {
			children = append(children, Text(name, "true"))
		}
	}
	flag("allowCreate", op.AllowCreate)
	flag("allowDelete", op.AllowDelete)
	flag("allowEdit", op.AllowEdit)
	flag("allowRead", op.AllowRead)
	flag("modifyAllRecords", op.ModifyAllRecords)
	children = append(children, Text("object", op.Object))
	flag("viewAllRecords", op.ViewAllRecords)
	return Group("objectPermissions", children...)
}
