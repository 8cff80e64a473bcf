package converter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.jacobcolvin.com/invconv/coerce"
	"go.jacobcolvin.com/invconv/document"
)

var errDeviceShape = errors.New("network device must be a single object")

// discoveryInfoKeys move from the discovered device to its info block
// unchanged.
var discoveryInfoKeys = []string{
	"mac", "contact", "firmware", "location", "manufacturer", "model",
	"uptime", "type", "description", "serial", "assettag",
}

// passthroughDeviceKeys are copied from the inventoried device to content.
var passthroughDeviceKeys = []string{
	"cartridges", "pagecounters", "drives", "storages", "error",
}

// restructureDevice turns content.device, as sent by network inventory and
// network discovery tasks, into the network_* sections.
func restructureDevice(r *run) error {
	c, ok := r.content()
	if !ok || !c.Has("device") {
		return nil
	}

	device, ok := c.Object("device")
	if !ok {
		return errDeviceShape
	}

	if action, _ := r.doc.Text("action"); action == "netdiscovery" {
		err := discoveredDevice(c, device)
		if err != nil {
			return err
		}
	}

	if version, ok := c.Get("moduleversion"); ok {
		if !c.Has("versionclient") {
			c.Set("versionclient", version)
		}

		c.Delete("moduleversion")
	}

	if c.Has("processnumber") {
		if jobid, ok := coerce.CastInt(mustGet(c, "processnumber")); ok {
			r.doc.Set("jobid", jobid)
		}

		c.Delete("processnumber")
	}

	err := inventoriedDevice(r, c, device)
	if err != nil {
		return err
	}

	if itemtype, _ := r.doc.Text("itemtype"); itemtype == "Printer" && !c.Has("versionclient") {
		c.Set("versionclient", document.String("missing"))
	}

	c.Delete("device")

	return nil
}

// discoveredDevice moves the flat fields of a discovered device into its
// info block, which the inventory branch then handles.
func discoveredDevice(c, device *document.Object) error {
	info, ok := device.Object("info")
	if !ok {
		info = document.NewObject()
		info.Set("type", document.String("Unmanaged"))
		device.Set("info", info)
	}

	if nonEmpty(device, "snmphostname") {
		device.Delete("dnshostname")
		device.Delete("netbiosname")
	}

	if nonEmpty(device, "netbiosname") {
		device.Delete("dnshostname")
	}

	if ip, ok := device.Get("ip"); ok {
		device.Delete("ip")

		if !device.Has("ips") {
			device.Set("ips", ipsObject(ip))
		}
	}

	for key, value := range device.All() {
		switch {
		case key == "info":
			continue
		case key == "dnshostname", key == "snmphostname", key == "netbiosname":
			info.Set("name", value)
		case key == "entity", key == "usersession":
		case key == "ips":
			info.Set("ips", value)
		case slices.Contains(discoveryInfoKeys, key):
			info.Set(key, value)
		case key == "netportvendor":
			if !device.Has("manufacturer") && !info.Has("manufacturer") {
				info.Set("manufacturer", value)
			}
		case key == "workgroup":
			c.Ensure("hardware").Set("workgroup", value)
		case key == "authsnmp":
			info.Set("credentials", value)
		default:
			return fmt.Errorf("%w: key %s is not handled in network discovery conversion",
				ErrUnhandledKey, key)
		}

		device.Delete(key)
	}

	return nil
}

func inventoriedDevice(r *run, c, device *document.Object) error {
	for key, value := range device.All() {
		switch {
		case key == "info":
			info, ok := value.(*document.Object)
			if !ok {
				return fmt.Errorf("%w: device info is not an object", errDeviceShape)
			}

			err := deviceInfo(r, c, device, info)
			if err != nil {
				return err
			}
		case key == "ports":
			ports, err := deviceEntries(value, key, "port")
			if err != nil {
				return err
			}

			setList(c, "network_ports", networkPorts(ports))
		case key == "firmwares", key == "modems", key == "simcards":
			existing, _ := c.Get(key)
			merged := slices.Concat(document.AsList(existing), document.AsList(value))
			setList(c, key, merged)
		case key == "components":
			components, err := deviceEntries(value, key, "component")
			if err != nil {
				return err
			}

			setList(c, "network_components", networkComponents(components))
		case slices.Contains(passthroughDeviceKeys, key):
			c.Set(key, value)
		default:
			return fmt.Errorf("%w: key %s is not handled in network devices conversion",
				ErrUnhandledKey, key)
		}
	}

	return nil
}

// deviceInfo promotes the device info block to content.network_device and
// derives the itemtype.
func deviceInfo(r *run, c, device, info *document.Object) error {
	setInt(info, "cpu")
	setInt(info, "id")

	info.Rename("comments", "description")

	if typ, ok := info.Text("type"); ok {
		typ = titleFirst(strings.ToLower(typ))
		if typ == "Kvm" {
			typ = "KVM"
		}

		info.Set("type", document.String(typ))
	}

	info.Rename("macaddr", "mac")

	if ips, ok := info.Object("ips"); ok {
		ip, _ := ips.Get("ip")
		setList(info, "ips", document.AsList(ip))
	}

	c.Set("network_device", info)

	if firmware, ok := info.Get("firmware"); ok && isEmpty(mustGet(device, "firmwares")) {
		entry := document.NewObject()
		entry.Set("version", firmware)
		entry.Set("name", firmware)

		existing, _ := c.Get("firmwares")
		c.Set("firmwares", append(slices.Clone(document.AsList(existing)), entry))
	}

	if r.doc.Has("itemtype") {
		return nil
	}

	itemtype := "Computer"

	if typ, ok := info.Text("type"); ok {
		switch typ {
		case "Computer", "Phone", "Printer", "Unmanaged":
			itemtype = typ
		case "Networking", "Storage", "Power", "Video", "KVM":
			itemtype = "NetworkEquipment"
		default:
			return fmt.Errorf("%w: unhandled device type %s", ErrUnhandledKey, typ)
		}
	}

	r.doc.Set("itemtype", document.String(itemtype))

	return nil
}

// deviceEntries returns the child entries of a device container such as
// ports/port. The container must be a single object holding only child
// entries, and every entry must be an object.
func deviceEntries(value document.Value, container, child string) (document.List, error) {
	obj, ok := value.(*document.Object)
	if !ok {
		return nil, fmt.Errorf("%w: device %s must be a single object", errDeviceShape, container)
	}

	for key := range obj.All() {
		if key != child {
			return nil, fmt.Errorf("%w: key %s/%s is not handled in network devices conversion",
				ErrUnhandledKey, container, key)
		}
	}

	entries, _ := obj.Get(child)
	list := slices.Clone(document.AsList(entries))

	for _, entry := range list {
		if _, ok := entry.(*document.Object); !ok {
			return nil, fmt.Errorf("%w: device %s/%s entries must be objects", errDeviceShape, container, child)
		}
	}

	return list, nil
}

func networkPorts(list document.List) document.List {
	for _, item := range list {
		netport, _ := item.(*document.Object)

		if vlans, ok := netport.Object("vlans"); ok {
			vlan, _ := vlans.Get("vlan")
			setList(netport, "vlans", document.AsList(vlan))
		}

		if conns, ok := netport.Object("connections"); ok {
			if cdp, ok := conns.Get("cdp"); ok {
				netport.Set("lldp", coerce.CastBool(cdp))
				conns.Delete("cdp")
			}
		}

		netport.Rename("ifinoctets", "ifinbytes")
		netport.Rename("ifoutoctets", "ifoutbytes")

		if conns, ok := netport.Object("connections"); ok {
			conn, _ := conns.Get("connection")
			connections := document.AsList(conn)

			for _, entry := range connections {
				if obj, ok := entry.(*document.Object); ok {
					setInt(obj, "ifnumber")
				}
			}

			setList(netport, "connections", connections)
		}

		if aggregate, ok := netport.Object("aggregate"); ok {
			p, _ := aggregate.Get("port")

			var members document.List

			for _, member := range document.AsList(p) {
				if n, ok := coerce.CastInt(member); ok {
					members = append(members, n)
				}
			}

			setList(netport, "aggregate", members)
		}

		if ip, ok := netport.Get("ip"); ok {
			netport.Delete("ip")

			if !netport.Has("ips") {
				netport.Set("ips", ipsObject(ip))
			}
		}

		if ips, ok := netport.Object("ips"); ok {
			ip, _ := ips.Get("ip")
			setList(netport, "ips", document.AsList(ip))
		}
	}

	return list
}

func networkComponents(list document.List) document.List {
	for _, item := range list {
		comp, _ := item.(*document.Object)

		if comp.Has("containedinindex") {
			if !comp.Has("contained_index") {
				if n, ok := coerce.CastInt(mustGet(comp, "containedinindex")); ok {
					comp.Set("contained_index", n)
				}
			}

			comp.Delete("containedinindex")
		}

		comp.Delete("revision")
		comp.Rename("version", "firmware")
	}

	return list
}

// ipsObject wraps a lone address the way agents send address lists.
func ipsObject(ip document.Value) *document.Object {
	ips := document.NewObject()
	ips.Set("ip", document.List{ip})

	return ips
}

func mustGet(obj *document.Object, key string) document.Value {
	v, _ := obj.Get(key)

	return v
}

func nonEmpty(obj *document.Object, key string) bool {
	return !isEmpty(mustGet(obj, key))
}

// isEmpty reports whether v is absent, blank text or an empty container.
func isEmpty(v document.Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case document.List:
		return len(x) == 0
	case *document.Object:
		return x.Len() == 0
	}

	text, _ := document.Text(v)

	return text == "" || text == "0"
}

func titleFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
