package diagnostic

// Diagnostic codes reported by the planners and the manifest loader.
const (
	CodeMissingNamespace         = "missing_namespace"
	CodeKeyTypeNotSupported      = "key_type_not_supported"
	CodeKeyNotSerializable       = "key_property_not_serializable"
	CodeAmbiguousAssociation     = "ambiguous_association"
	CodeAssociationKeyNotFound   = "association_key_not_found"
	CodeAssociationKeyMismatch   = "association_key_mismatch"
	CodeSharedRootMismatch       = "shared_root_mismatch"
	CodeEnumNotExposable         = "enum_not_exposable"
	CodeEnumSystemType           = "enum_system_type"
	CodeAttributeFailed          = "attribute_failed"
	CodeUnknownType              = "unknown_type"
	CodeDuplicateType            = "duplicate_type"
	CodeInvalidModel             = "invalid_model"
	CodeTypeShared               = "type_shared"
	CodeMemberSkipped            = "member_skipped"
	CodeNamespaceConflict        = "namespace_conflict"
	CodeUnknownUnitEntity        = "unknown_unit_entity"
	CodeInvalidShareKind         = "invalid_share_kind"
	CodeInvalidTypeRef           = "invalid_type_ref"
	CodeDuplicateUnit            = "duplicate_unit"
	CodeMethodSkipped            = "method_skipped"
	CodeNonSerializableSkipped   = "non_serializable_skipped"
	CodePolymorphicMemberSkipped = "polymorphic_member_skipped"
)
