package plans

// Feature names form a fixed vocabulary consulted by the gateway
// handlers. Any name outside this set is denied.
const (
	FeatureBasicHerbInfo     = "basic_herb_info"
	FeatureDetailedHerbInfo  = "detailed_herb_info"
	FeatureCategories        = "categories"
	FeatureSearch            = "search"
	FeatureAdvancedFiltering = "advanced_filtering"
	FeatureBulkOperations    = "bulk_operations"
)
