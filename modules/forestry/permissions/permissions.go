package permissions

// Permission names checked by the forestry services. The request layer
// resolves them onto the caller's identity before the service runs.
const (
	ForestryRead   = "forestry.read"
	ForestryCreate = "forestry.create"
	ForestryUpdate = "forestry.update"
	ForestryDelete = "forestry.delete"
	ForestryExport = "forestry.export"
	ForestryImport = "forestry.import"
)
