// Command pnet inspects local network interfaces and routes, and performs
// ARP discovery and ARP-cache poisoning against hosts on the same subnet.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/pol4bear/pnet/addr"
	"github.com/pol4bear/pnet/arp"
	"github.com/pol4bear/pnet/inventory"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	verbose := flag.Bool("v", false, "enable debug logging")
	timeout := flag.Int("timeout", 1, "ARP resolve timeout in seconds")
	batch := flag.Int("batch", 50, "arpscan: number of addresses outstanding per batch")
	retries := flag.Int("retries", 3, "arpscan: request passes per batch")
	flag.CommandLine.Parse(args[1:])

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	rest := flag.Args()
	if len(rest) < 1 {
		printUsage()
		return 1
	}

	command := rest[0]
	switch command {
	case "interfaces":
		return showInterfaces()
	case "routes":
		return showRoutes()
	case "arpscan":
		if len(rest) < 2 {
			printUsage()
			return 1
		}
		if !requireRoot() {
			return 1
		}
		return arpscan(rest[1], *batch, *retries)
	case "arpblock":
		if len(rest) < 2 {
			printUsage()
			return 1
		}
		if !requireRoot() {
			return 1
		}
		return arpblock(rest[1], *timeout)
	default:
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("Usage: pnet <command> [flags]")
	fmt.Println("  interfaces\t\tPrint network interface list")
	fmt.Println("  routes\t\tPrint routing table")
	fmt.Println("  arpscan <interface>\tScan devices in the same network as <interface>")
	fmt.Println("  arpblock <ip>\t\tBlock network connectivity of <ip>")
	fmt.Println()
	fmt.Println("You will need ROOT privileges to run ARP related commands.")
}

func requireRoot() bool {
	if os.Geteuid() == 0 {
		return true
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("You need ROOT privileges to run this command."))
	return false
}

func showInterfaces() int {
	netinfos, err := inventory.Default().GetAllNetinfo(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	names := make([]string, 0, len(netinfos))
	for name := range netinfos {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(headingStyle.Render("INTERFACES"))
	for _, name := range names {
		info := netinfos[name]
		line := fmt.Sprintf("%s : %s, %s/%d", name, info.MAC, info.IP, info.Mask.CIDR())
		if gatewayIP, err := inventory.Default().GetGatewayIP(name); err == nil {
			line += fmt.Sprintf(", %s", gatewayIP)
		}
		fmt.Println(line)
	}
	return 0
}

func showRoutes() int {
	routes, err := inventory.Default().GetAllRouteinfo(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(headingStyle.Render("ROUTES"))
	for _, name := range names {
		for _, route := range routes[name] {
			fmt.Printf("%s : %s/%d, %s, %d\n", name, route.Destination, route.Mask.CIDR(), route.Gateway, route.Metric)
		}
	}
	return 0
}

func arpscan(ifaceName string, batch, retries int) int {
	first, last, err := inventory.Default().GetIPRangeForInterface(ifaceName, addr.SubnetMask{})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	var ips []addr.IPv4
	for ip := first; ip != last.Inc(); ip = ip.Inc() {
		ips = append(ips, ip)
	}

	engine := arp.Default()
	err = engine.Sweep(ips, func(ip addr.IPv4, mac addr.MAC) {
		if ip.Uint32() == 0 && mac == (addr.MAC{}) {
			return
		}
		fmt.Printf("%s %s\n", ip, mac)
	}, batch, retries)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	return 0
}

func arpblock(ipStr string, timeoutSeconds int) int {
	ip, err := addr.ParseIPv4(ipStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	fmt.Printf("Poisoning %s. Press Ctrl+C to stop and restore connectivity.\n", ip)
	if err := arp.Default().Poison(ip, timeoutSeconds); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	fmt.Println("Recovered. Exiting.")
	return 0
}
