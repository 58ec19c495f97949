package tcp

// UnknownService labels ports missing from the catalog.
const UnknownService = "Unknown Service"

type entry struct {
	port    int
	service string
}

// catalog is probed in this order by Sweep.
var catalog = []entry{
	// web
	{80, "HTTP Web Server"},
	{443, "HTTPS Secure Web Server"},
	{8080, "HTTP Alternate"},
	{8443, "HTTPS Alternate"},

	// industrial protocols
	{502, "Modbus TCP"},
	{102, "Siemens S7 / IEC 61850"},
	{44818, "EtherNet/IP Explicit Messaging"},
	{2222, "EtherNet/IP I/O Data"},
	{4840, "OPC UA"},
	{4843, "OPC UA with TLS"},
	{47808, "BACnet/IP"},
	{20000, "DNP3"},
	{1883, "MQTT"},
	{8883, "MQTT with TLS"},

	// network management
	{161, "SNMP"},
	{162, "SNMP Trap"},
	{22, "SSH Secure Shell"},
	{23, "Telnet"},
	{21, "FTP Control"},
	{20, "FTP Data"},
	{69, "TFTP"},

	// databases and HMI
	{1433, "Microsoft SQL Server"},
	{3306, "MySQL Database"},
	{5432, "PostgreSQL Database"},
	{5900, "VNC Remote Desktop"},
	{3389, "Windows RDP"},

	// other industrial
	{9600, "OMRON FINS"},
	{5000, "Siemens S7 (alternate)"},
	{5001, "Siemens S7 (alternate)"},
	{1911, "Niagara Fox Protocol"},
	{1962, "Phoenix Contact PCWorx"},
	{789, "Red Lion Crimson v3"},
	{10001, "Ubiquiti Discovery"},
	{2455, "WAGO CoDeSys"},
	{34962, "Profinet RT"},
	{34963, "Profinet RT"},
	{34964, "Profinet RT"},
	{2404, "IEC 60870-5-104"},

	// mail, often found on plant servers
	{25, "SMTP Mail"},
	{110, "POP3 Mail"},
	{143, "IMAP Mail"},
	{587, "SMTP Submission"},
	{993, "IMAP Secure"},
	{995, "POP3 Secure"},
}

var services = func() map[int]string {
	m := make(map[int]string, len(catalog))
	for _, e := range catalog {
		m[e.port] = e.service
	}
	return m
}()

// Ports returns the catalog ports in probe order.
func Ports() []int {
	ports := make([]int, len(catalog))
	for i, e := range catalog {
		ports[i] = e.port
	}
	return ports
}

// Service returns the catalog label for port, or UnknownService.
func Service(port int) string {
	if s, ok := services[port]; ok {
		return s
	}
	return UnknownService
}

// ValidPort reports whether port is a usable TCP port number.
func ValidPort(port int) bool {
	return port > 0 && port <= 65535
}
