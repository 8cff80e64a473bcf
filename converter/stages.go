package converter

import (
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"go.jacobcolvin.com/invconv/coerce"
	"go.jacobcolvin.com/invconv/document"
)

var (
	errNotObject = errors.New("document root is not an object")

	shortOffset = regexp.MustCompile(`^[+-][0-9]{2}$`)
)

func lowercaseKeys(r *run) error {
	obj, ok := document.LowercaseKeys(r.doc).(*document.Object)
	if !ok {
		return errNotObject
	}

	r.doc = obj

	return nil
}

func deriveAction(r *run) error {
	if !r.doc.Has("action") {
		query, ok := r.doc.Text("query")
		if !ok {
			query = "inventory"
			if c, ok := r.content(); ok && c.Has("device") {
				query = "snmp"
			}
		}

		action := "inventory"

		switch strings.ToLower(query) {
		case "snmp", "snmpquery":
			action = "netinventory"
		case "netdiscovery":
			action = "netdiscovery"
		}

		r.doc.Set("action", document.String(action))
	}

	r.doc.Delete("query")

	return nil
}

func castTypes(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	for _, rule := range boolFields {
		section, field := splitRule(rule)
		eachEntry(c, section, func(entry *document.Object) {
			if v, ok := entry.Get(field); ok {
				entry.Set(field, coerce.CastBool(v))
			}
		})
	}

	for _, rule := range intFields {
		section, field := splitRule(rule)
		eachEntry(c, section, func(entry *document.Object) {
			setInt(entry, field)
		})
	}

	return nil
}

func normalizeLists(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	for _, section := range listSections {
		if v, ok := c.Get(section); ok {
			c.Set(section, document.AsList(v))
		}
	}

	return nil
}

func normalizeSublists(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	for _, rule := range subListFields {
		section, field := splitRule(rule)
		eachEntry(c, section, func(entry *document.Object) {
			if v, ok := entry.Get(field); ok {
				entry.Set(field, document.AsList(v))
			}
		})
	}

	return nil
}

func fixNetworks(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "networks", func(nw *document.Object) {
		if status, ok := nw.Text("status"); ok {
			nw.Set("status", document.String(strings.ToLower(status)))
		}

		if !nw.Has("type") {
			return
		}

		typ, _ := nw.Text("type")

		typ = strings.ToLower(typ)
		if typ == "local" {
			typ = "loopback"
		}

		if !slices.Contains(r.patterns.NetworkTypes, typ) {
			r.logger.Debug("dropping unknown network type", slog.String("type", typ))
			nw.Delete("type")

			return
		}

		nw.Set("type", document.String(typ))
	})

	return nil
}

func fixCPUs(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "cpus", func(cpu *document.Object) {
		if arch, ok := cpu.Text("arch"); ok {
			cpu.Set("arch", document.String(strings.ToLower(arch)))
		}
	})

	return nil
}

func fixPlurals(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	c.Rename("firewall", "firewalls")

	eachEntry(c, "local_groups", func(group *document.Object) {
		group.Rename("member", "members")
	})

	return nil
}

func fixProcesses(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "processes", func(p *document.Object) {
		if !p.Has("started") {
			return
		}

		started, _ := p.Text("started")

		if converted, ok := coerce.DateTime(started); ok {
			p.Set("started", document.String(converted))

			return
		}

		p.Delete("started")
	})

	return nil
}

func fixSoftwares(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "softwares", func(sw *document.Object) {
		date, ok := convertDate(sw, "install_date", coerce.DateLayout)
		if legacy, found := sw.Get("installdate"); found {
			if !ok {
				text, _ := document.Text(legacy)
				date, ok = coerce.Date(text, coerce.DateLayout)
			}

			sw.Delete("installdate")
		}

		if ok {
			sw.Set("install_date", document.String(date))

			return
		}

		sw.Delete("install_date")
	})

	return nil
}

func fixDates(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	dates := []struct{ section, field string }{
		{"batteries", "date"},
		{"bios", "bdate"},
		{"firmwares", "date"},
		{"operatingsystem", "install_date"},
	}

	for _, d := range dates {
		eachEntry(c, d.section, func(entry *document.Object) {
			replaceDate(entry, d.field, coerce.DateLayout)
		})
	}

	return nil
}

func fixBootTime(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	opsys, ok := c.Object("operatingsystem")
	if !ok || !opsys.Has("boot_time") {
		return nil
	}

	value, _ := opsys.Text("boot_time")

	if converted, ok := coerce.BootTime(value); ok {
		opsys.Set("boot_time", document.String(converted))

		return nil
	}

	opsys.Delete("boot_time")

	return nil
}

func fixAntivirus(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "antivirus", func(av *document.Object) {
		replaceDate(av, "expiration", coerce.DateLayout)

		av.Rename("datfilecreation", "base_creation")

		for _, legacy := range []string{"datfileversion", "engineversion64", "engineversion32"} {
			av.Rename(legacy, "base_version")
		}
	})

	return nil
}

func fixStorages(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "storages", func(st *document.Object) {
		if iface, ok := st.Text("interface"); ok && strings.EqualFold(iface, "serial-ata") {
			st.Set("interface", document.String("SATA"))
		}

		st.Rename("serialnumber", "serial")
	})

	return nil
}

func fixEnvs(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "envs", func(env *document.Object) {
		if !env.Has("val") {
			env.Set("val", document.String(""))
		}
	})

	return nil
}

func fixSlots(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "slots", func(slot *document.Object) {
		if !slot.Has("status") {
			return
		}

		status, _ := slot.Text("status")

		switch strings.ToLower(status) {
		case "in use":
			slot.Set("status", document.String("used"))
		case "available":
			slot.Set("status", document.String("free"))
		default:
			slot.Delete("status")
		}
	})

	return nil
}

func fixVirtualMachines(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "virtualmachines", func(vm *document.Object) {
		if vmtype, ok := vm.Text("vmtype"); ok {
			vmtype = strings.ToLower(vmtype)

			switch vmtype {
			case "hyper-v":
				vmtype = "hyperv"
			case "solaris zone", "solaris zones":
				vmtype = "solariszone"
			}

			vm.Set("vmtype", document.String(vmtype))
		}

		if status, ok := vm.Text("status"); ok {
			switch strings.ToLower(status) {
			case "pause":
				vm.Set("status", document.String("paused"))
			case "stopped":
				vm.Set("status", document.String("off"))
			case "unknown":
				vm.Delete("status")
			}
		}
	})

	return nil
}

func fixVersionClient(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	hw, ok := c.Object("hardware")
	if !ok {
		return nil
	}

	if v, ok := hw.Get("versionclient"); ok {
		if !c.Has("versionclient") {
			c.Set("versionclient", v)
		}

		hw.Delete("versionclient")
	}

	return nil
}

func fixAccountInfo(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "accountinfo", func(info *document.Object) {
		name, _ := info.Text("keyname")
		value, _ := info.Text("keyvalue")

		if name == "TAG" && value != "" && !r.doc.Has("tag") {
			r.doc.Set("tag", document.String(value))
		}
	})

	c.Delete("accountinfo")

	return nil
}

func fixTimezone(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	opsys, ok := c.Object("operatingsystem")
	if !ok {
		return nil
	}

	tz, ok := opsys.Object("timezone")
	if !ok {
		return nil
	}

	offset, ok := tz.Text("offset")
	if !ok {
		return nil
	}

	if shortOffset.MatchString(offset) {
		offset += "00"
		tz.Set("offset", document.String(offset))
	}

	if !tz.Has("name") {
		tz.Set("name", document.String(offset))
	}

	return nil
}

func fixBatteries(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "batteries", func(battery *document.Object) {
		for _, field := range []string{"capacity", "real_capacity", "power_max"} {
			replaceUnit(battery, field, coerce.BatteryPower)
		}

		replaceUnit(battery, "voltage", coerce.BatteryVoltage)
	})

	eachEntry(c, "powersupplies", func(psu *document.Object) {
		replaceUnit(psu, "power_max", coerce.BatteryPower)
	})

	return nil
}

func fixPorts(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "ports", func(port *document.Object) {
		if !port.Has("type") {
			port.Set("type", document.String("None"))
		}
	})

	return nil
}

func fixItemtype(r *run) error {
	if !r.doc.Has("itemtype") {
		r.doc.Set("itemtype", document.String("Computer"))
	}

	return nil
}

func fixMacaddr(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "networks", func(nw *document.Object) {
		nw.Rename("macaddr", "mac")
	})

	return nil
}

func fixMemory(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	fields := []struct{ section, field string }{
		{"hardware", "memory"},
		{"hardware", "swap"},
		{"memories", "capacity"},
		{"videos", "memory"},
		{"virtualmachines", "memory"},
		{"network_device", "memory"},
		{"network_device", "ram"},
	}

	for _, f := range fields {
		eachEntry(c, f.section, func(entry *document.Object) {
			if v, ok := entry.Get(f.field); ok {
				if mib, ok := coerce.Memory(v); ok {
					entry.Set(f.field, mib)
				} else {
					entry.Delete(f.field)
				}
			}
		})
	}

	return nil
}

func fixPCIID(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "controllers", func(ctrl *document.Object) {
		id, ok := ctrl.Text("pciid")
		if !ok {
			return
		}

		vendor, product := coerce.SplitPCIID(id)

		if vendor != "" && !ctrl.Has("vendorid") {
			ctrl.Set("vendorid", document.String(vendor))
		}

		if product != "" && !ctrl.Has("productid") {
			ctrl.Set("productid", document.String(product))
		}

		ctrl.Delete("pciid")
	})

	return nil
}

func fixUsers(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	c.Rename("user", "users")

	return nil
}

func fixSimcards(r *run) error {
	c, ok := r.content()
	if !ok {
		return nil
	}

	eachEntry(c, "simcards", func(sim *document.Object) {
		sim.Rename("line_number", "phone_number")
	})

	return nil
}

func dropRetired(r *run) error {
	for _, field := range retiredRootFields {
		r.doc.Delete(field)
	}

	c, ok := r.content()
	if !ok {
		return nil
	}

	for _, section := range retiredSections {
		c.Delete(section)
	}

	for _, retired := range retiredFields {
		eachEntry(c, retired.section, func(entry *document.Object) {
			for _, field := range retired.fields {
				entry.Delete(field)
			}
		})
	}

	return nil
}

// convertDate returns the converted date stored under key.
func convertDate(obj *document.Object, key, layout string) (string, bool) {
	text, _ := obj.Text(key)

	return coerce.Date(text, layout)
}

// replaceDate converts the date stored under key in place, removing it when
// it holds no date.
func replaceDate(obj *document.Object, key, layout string) {
	if !obj.Has(key) {
		return
	}

	if date, ok := convertDate(obj, key, layout); ok {
		obj.Set(key, document.String(date))

		return
	}

	obj.Delete(key)
}

// replaceUnit converts the measurement stored under key in place. Zero and
// unconvertible values are removed.
func replaceUnit(obj *document.Object, key string, convert func(document.Value) (document.Int, bool)) {
	v, ok := obj.Get(key)
	if !ok {
		return
	}

	n, ok := convert(v)
	if !ok || n == 0 {
		obj.Delete(key)

		return
	}

	obj.Set(key, n)
}
