package converter

import (
	"log/slog"
	"strings"

	"go.jacobcolvin.com/invconv/coerce"
	"go.jacobcolvin.com/invconv/document"
	"go.jacobcolvin.com/invconv/schema"
)

// LastVersion is the most recent format version the converter produces.
const LastVersion = 0.1

// Pass is a group of stages that migrates documents to one format version.
type Pass struct {
	Name    string
	Stages  []Stage
	Version float64
}

// Stage is one named transformation of a pass.
type Stage struct {
	apply func(*run) error
	Name  string
}

// run is the state of one conversion.
type run struct {
	doc      *document.Object
	logger   *slog.Logger
	patterns schema.Patterns
}

// content returns the content object, if the document has one.
func (r *run) content() (*document.Object, bool) {
	return r.doc.Object("content")
}

// Passes returns every registered pass in the order they run.
func Passes() []Pass {
	out := make([]Pass, len(registry))
	copy(out, registry)

	return out
}

var registry = []Pass{
	{
		Version: 0.1,
		Name:    "convertTo01",
		Stages: []Stage{
			{Name: "lowercase-keys", apply: lowercaseKeys},
			{Name: "action", apply: deriveAction},
			{Name: "network-device", apply: restructureDevice},
			{Name: "cast-types", apply: castTypes},
			{Name: "normalize-lists", apply: normalizeLists},
			{Name: "normalize-sublists", apply: normalizeSublists},
			{Name: "networks", apply: fixNetworks},
			{Name: "cpus", apply: fixCPUs},
			{Name: "plurals", apply: fixPlurals},
			{Name: "processes", apply: fixProcesses},
			{Name: "softwares", apply: fixSoftwares},
			{Name: "dates", apply: fixDates},
			{Name: "boot-time", apply: fixBootTime},
			{Name: "antivirus", apply: fixAntivirus},
			{Name: "storages", apply: fixStorages},
			{Name: "envs", apply: fixEnvs},
			{Name: "slots", apply: fixSlots},
			{Name: "virtualmachines", apply: fixVirtualMachines},
			{Name: "versionclient", apply: fixVersionClient},
			{Name: "accountinfo", apply: fixAccountInfo},
			{Name: "timezone", apply: fixTimezone},
			{Name: "batteries", apply: fixBatteries},
			{Name: "ports", apply: fixPorts},
			{Name: "itemtype", apply: fixItemtype},
			{Name: "macaddr", apply: fixMacaddr},
			{Name: "memory", apply: fixMemory},
			{Name: "pciid", apply: fixPCIID},
			{Name: "users", apply: fixUsers},
			{Name: "simcards", apply: fixSimcards},
			{Name: "drop-retired", apply: dropRetired},
		},
	},
}

// Fields cast by the cast-types stage, as "section/field".
var (
	boolFields = []string{
		"antivirus/enabled",
		"antivirus/uptodate",
		"drives/systemdrive",
		"networks/virtualdev",
		"printers/network",
		"printers/shared",
		"networks/management",
		"softwares/no_remove",
		"licenseinfos/trial",
		"network_ports/trunk",
		"cameras/flashunit",
		"powersupplies/hotreplaceable",
		"powersupplies/plugged",
		"memories/removable",
	}

	intFields = []string{
		"cpus/core",
		"cpus/speed",
		"cpus/stepping",
		"cpus/thread",
		"cpus/external_clock",
		"cpus/corecount",
		"drives/free",
		"drives/total",
		"hardware/etime",
		"storages/disksize",
		"physical_volumes/free",
		"physical_volumes/pe_size",
		"physical_volumes/pv_pe_count",
		"physical_volumes/size",
		"volume_groups/lv_count",
		"volume_groups/pv_count",
		"volume_groups/free",
		"volume_groups/size",
		"logical_volumes/seg_count",
		"logical_volumes/size",
		"memories/numslots",
		"processes/pid",
		"processes/virtualmemory",
		"networks/mtu",
		"softwares/filesize",
		"virtualmachines/vcpu",
		"network_ports/ifinerrors",
		"network_ports/ifinoctets",
		"network_ports/ifinbytes",
		"network_ports/ifinternalstatus",
		"network_ports/ifmtu",
		"network_ports/ifnumber",
		"network_ports/ifouterrors",
		"network_ports/ifoutoctets",
		"network_ports/ifoutbytes",
		"network_ports/ifspeed",
		"network_ports/ifportduplex",
		"network_ports/ifstatus",
		"network_ports/iftype",
		"network_components/fru",
		"network_components/index",
		"network_device/credentials",
		"pagecounters/total",
		"pagecounters/black",
		"pagecounters/color",
		"pagecounters/rectoverso",
		"pagecounters/scanned",
		"pagecounters/printtotal",
		"pagecounters/printblack",
		"pagecounters/printcolor",
		"pagecounters/copytotal",
		"pagecounters/copyblack",
	}
)

// listSections are always emitted as lists.
var listSections = []string{
	"cpus",
	"local_users",
	"local_groups",
	"ports",
	"sounds",
	"usbdevices",
	"batteries",
	"firewall",
	"monitors",
	"printers",
	"storages",
	"slots",
	"modems",
	"licenseinfos",
	"antivirus",
	"drives",
	"users",
	"networks",
	"controllers",
	"envs",
	"inputs",
	"logical_volumes",
	"physical_volumes",
	"volume_groups",
	"memories",
	"processes",
	"softwares",
	"virtualmachines",
	"firmwares",
	"simcards",
	"sensors",
	"powersupplies",
	"videos",
	"remote_mgmt",
	"cartridges",
	"cameras",
	"user",
}

// subListFields are per-entry fields always emitted as lists.
var subListFields = []string{
	"local_groups/member",
	"versionprovider/comments",
	"cameras/resolution",
	"cameras/imageformats",
	"cameras/resolutionvideo",
}

// Retired data removed by the drop-retired stage.
var (
	retiredSections = []string{
		"registry",
		"userslist",
		"mib_applications",
		"mib_components",
		"jvms",
	}

	// Keyed by section. Applies to object and list sections alike.
	retiredFields = []struct {
		section string
		fields  []string
	}{
		{"hardware", []string{
			"archname", "osname", "checksum", "etime", "ipaddr", "osversion",
			"oscomments", "processorn", "processors", "processort", "userid",
			"lastdate", "userdomain",
		}},
		{"operatingsystem", []string{"boot_date"}},
		{"bios", []string{"type"}},
		{"network_device", []string{"comments", "id"}},
		{"licenseinfos", []string{"oem"}},
		{"drives", []string{"numfiles"}},
		{"inputs", []string{"pointtype"}},
		{"networks", []string{"typemib"}},
		{"softwares", []string{"filename", "source", "language", "is64bit", "releasetype"}},
		{"controllers", []string{"description", "version"}},
		{"slots", []string{"shared"}},
		{"physical_volumes", []string{"pv_name"}},
		{"videos", []string{"pciid"}},
		{"cpus", []string{"type"}},
		{"sensors", []string{"power"}},
		{"batteries", []string{"temperature", "level", "health", "status"}},
		{"network_components", []string{"ip", "mac"}},
		{"virtualmachines", []string{"vmid"}},
	}

	retiredRootFields = []string{
		"uuid",
		"user",
		"userdefinedproperties",
		"agentsname",
		"machineid",
		"cfkey",
		"policies",
		"hostname",
		"processors",
		"policy_server",
	}
)

// splitRule splits a "section/field" rule.
func splitRule(rule string) (section, field string) {
	section, field, _ = strings.Cut(rule, "/")

	return section, field
}

// eachEntry calls fn for section when it is an object, or for every object
// in it when it is a list.
func eachEntry(content *document.Object, section string, fn func(*document.Object)) {
	v, _ := content.Get(section)

	switch x := v.(type) {
	case *document.Object:
		fn(x)
	case document.List:
		for _, item := range x {
			if obj, ok := item.(*document.Object); ok {
				fn(obj)
			}
		}
	}
}

// setList stores l under key, or removes key when l is empty.
func setList(obj *document.Object, key string, l document.List) {
	if len(l) == 0 {
		obj.Delete(key)

		return
	}

	obj.Set(key, l)
}

// setInt stores the integer form of the value under key, or removes key when
// the value is not an integer.
func setInt(obj *document.Object, key string) {
	v, ok := obj.Get(key)
	if !ok {
		return
	}

	n, ok := coerce.CastInt(v)
	if !ok {
		obj.Delete(key)

		return
	}

	obj.Set(key, n)
}
