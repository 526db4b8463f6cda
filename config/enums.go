package config

// Specification of requested export artifact type.
// ENUM(sqlite, xml)
type ExportFmt int

func (x ExportFmt) Ext() string {
	switch x {
	case ExportFmtSqlite:
		return ".db"
	case ExportFmtXml:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
