package utils

import "strings"

type regionInfo struct {
	name      string
	partition string
}

// Partition identifiers, as used in ARNs
const (
	PartitionAWS   = "aws"
	PartitionGov   = "aws-us-gov"
	PartitionChina = "aws-cn"
)

var regions = map[string]regionInfo{
	"us-east-1":      {"US East (N. Virginia)", PartitionAWS},
	"us-east-2":      {"US East (Ohio)", PartitionAWS},
	"us-west-1":      {"US West (N. California)", PartitionAWS},
	"us-west-2":      {"US West (Oregon)", PartitionAWS},
	"af-south-1":     {"Africa (Cape Town)", PartitionAWS},
	"ap-east-1":      {"Asia Pacific (Hong Kong)", PartitionAWS},
	"ap-south-1":     {"Asia Pacific (Mumbai)", PartitionAWS},
	"ap-south-2":     {"Asia Pacific (Hyderabad)", PartitionAWS},
	"ap-northeast-1": {"Asia Pacific (Tokyo)", PartitionAWS},
	"ap-northeast-2": {"Asia Pacific (Seoul)", PartitionAWS},
	"ap-northeast-3": {"Asia Pacific (Osaka)", PartitionAWS},
	"ap-southeast-1": {"Asia Pacific (Singapore)", PartitionAWS},
	"ap-southeast-2": {"Asia Pacific (Sydney)", PartitionAWS},
	"ap-southeast-3": {"Asia Pacific (Jakarta)", PartitionAWS},
	"ap-southeast-4": {"Asia Pacific (Melbourne)", PartitionAWS},
	"ca-central-1":   {"Canada (Central)", PartitionAWS},
	"ca-west-1":      {"Canada West (Calgary)", PartitionAWS},
	"eu-central-1":   {"Europe (Frankfurt)", PartitionAWS},
	"eu-central-2":   {"Europe (Zurich)", PartitionAWS},
	"eu-west-1":      {"Europe (Ireland)", PartitionAWS},
	"eu-west-2":      {"Europe (London)", PartitionAWS},
	"eu-west-3":      {"Europe (Paris)", PartitionAWS},
	"eu-north-1":     {"Europe (Stockholm)", PartitionAWS},
	"eu-south-1":     {"Europe (Milan)", PartitionAWS},
	"eu-south-2":     {"Europe (Spain)", PartitionAWS},
	"il-central-1":   {"Israel (Tel Aviv)", PartitionAWS},
	"me-south-1":     {"Middle East (Bahrain)", PartitionAWS},
	"me-central-1":   {"Middle East (UAE)", PartitionAWS},
	"sa-east-1":      {"South America (Sao Paulo)", PartitionAWS},
	"us-gov-west-1":  {"AWS GovCloud (US-West)", PartitionGov},
	"us-gov-east-1":  {"AWS GovCloud (US-East)", PartitionGov},
	"cn-north-1":     {"China (Beijing)", PartitionChina},
	"cn-northwest-1": {"China (Ningxia)", PartitionChina},
}

// IsValidRegion checks if a region is valid
func IsValidRegion(region string) bool {
	_, ok := regions[region]
	return ok
}

// RegionName returns the descriptive name of region, or region itself if unknown
func RegionName(region string) string {
	if info, ok := regions[region]; ok {
		return info.name
	}
	return region
}

// Partition returns the partition region belongs to. IAM users are global
// within a partition, so this is the real scope of an audit.
func Partition(region string) string {
	if info, ok := regions[region]; ok {
		return info.partition
	}
	switch {
	case strings.HasPrefix(region, "us-gov-"):
		return PartitionGov
	case strings.HasPrefix(region, "cn-"):
		return PartitionChina
	}
	return PartitionAWS
}

// GetDefaultRegion returns the default AWS region
func GetDefaultRegion() string {
	return "us-east-1"
}
