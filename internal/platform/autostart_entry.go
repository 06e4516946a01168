package platform

import (
	"fmt"
	"strings"
)

func desktopFileName(appName string) string {
	return slug(appName) + ".desktop"
}

func launchAgentLabel(appName string) string {
	return "com.movedyet." + slug(appName)
}

// renderDesktopEntry builds an XDG autostart file.
func renderDesktopEntry(entry Entry) string {
	parts := make([]string, 0, len(entry.Args)+1)
	parts = append(parts, quoteIfSpaced(entry.ExecPath))
	for _, arg := range entry.Args {
		parts = append(parts, quoteIfSpaced(arg))
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.Name)
	fmt.Fprintf(&builder, "Exec=%s\n", strings.Join(parts, " "))
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	builder.WriteString("Terminal=false\n")
	return builder.String()
}

// renderLaunchAgent builds a launchd property list.
func renderLaunchAgent(entry Entry) string {
	var arguments strings.Builder
	fmt.Fprintf(&arguments, "\t\t<string>%s</string>\n", xmlEscape(entry.ExecPath))
	for _, arg := range entry.Args {
		fmt.Fprintf(&arguments, "\t\t<string>%s</string>\n", xmlEscape(arg))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, xmlEscape(launchAgentLabel(entry.Name)), arguments.String())
}

// windowsCommandLine builds the value stored under the Run registry key.
func windowsCommandLine(entry Entry) string {
	parts := []string{fmt.Sprintf(`"%s"`, strings.Trim(entry.ExecPath, `"`))}
	for _, arg := range entry.Args {
		parts = append(parts, quoteIfSpaced(arg))
	}
	return strings.Join(parts, " ")
}

func quoteIfSpaced(value string) string {
	if strings.Contains(value, " ") && !strings.HasPrefix(value, `"`) {
		return `"` + value + `"`
	}
	return value
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}
