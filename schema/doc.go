// Package schema builds and enforces the JSON Schema of converted inventory
// documents.
//
// The canonical schema (format [Version]) is embedded in the package and
// returned by [Canonical]. It describes the document root (action, itemtype,
// deviceid, jobid, partial, tag) and every content section the converter
// emits. Sections and the content object itself reject unknown properties.
//
// # Extending
//
// Servers that accept inventories from agent plugins need to allow extra
// data. Extensions are expressed as [Operation] values and applied with
// [Build], which works on a deep copy of the base schema:
//
//   - [AddItemtypes] appends values to the itemtype alternation, quoting them
//     for the regular expression. Values already present are skipped.
//   - [AddProperty] adds a content section.
//   - [AddSubProperty] adds a property inside a content section: in the item
//     schema of array sections and in the properties of object sections.
//   - [StripAdditionalProperties] removes every additionalProperties
//     constraint below content ("flexible" mode). The document root stays
//     strict.
//
// An extension that collides with an existing property, or that targets a
// section the schema does not define, is skipped and reported as a [Warning].
// Warnings are returned by [Build] and never abort a build, so independent
// extension sets can be layered.
//
// [Builder] offers the same operations as functional options, reads the base
// schema on every build (see [WithPath]) and logs warnings with [log/slog].
// [Extensions] loads option sets from YAML files.
//
// # Validating
//
// [Compile] prepares a schema for validation. [Validator.Validate] reports
// all violations in one [ErrValidation] error, one line each:
//
//	json does not validate: violations:
//	Required property missing: versionclient
//	Additional properties not allowed: plugin_node
//	"\\Glpi\\Custom\\Asset\\Mine" does not match to ^(Unmanaged|Computer|Phone|NetworkEquipment|Printer)$
//
// Violations are not exposed as structured values; callers only get the
// message.
//
// # Patterns
//
// [PatternsOf] extracts the value sets encoded as "^(A|B)$" patterns, such
// as the accepted network interface types.
package schema
