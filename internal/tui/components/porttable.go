package components

import (
	"github.com/allbin/serialdelay"
	"github.com/allbin/serialdelay/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnKeyPick         = "pick"
	columnKeyDevice       = "device"
	columnKeyDescription  = "description"
	columnKeyManufacturer = "manufacturer"

	portTablePageSize = 4
)

// PortTable lists enumerated ports and tracks the highlighted one
type PortTable struct {
	table table.Model
	ports []serialdelay.PortDescriptor
}

func NewPortTable() *PortTable {
	columns := []table.Column{
		table.NewColumn(columnKeyPick, "", 2),
		table.NewFlexColumn(columnKeyDevice, "Port", 2),
		table.NewFlexColumn(columnKeyDescription, "Description", 3),
		table.NewFlexColumn(columnKeyManufacturer, "Manufacturer", 2),
	}

	t := table.New(columns).
		Focused(true).
		WithPageSize(portTablePageSize).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Text)).
		HighlightStyle(lipgloss.NewStyle().Foreground(styles.Text).Background(styles.Surface1)).
		WithBaseStyle(lipgloss.NewStyle().Foreground(styles.Subtext1).BorderForeground(styles.Surface2).Align(lipgloss.Left))

	return &PortTable{table: t}
}

// SetPorts replaces the rows and highlights the auto-picked port
func (pt *PortTable) SetPorts(ports []serialdelay.PortDescriptor) {
	pt.ports = ports
	picked, _ := serialdelay.AutoPick(ports)

	rows := make([]table.Row, 0, len(ports))
	highlight := 0
	for i, p := range ports {
		mark := ""
		if p.Device == picked {
			mark = "★"
			highlight = i
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPick:         mark,
			columnKeyDevice:       p.Device,
			columnKeyDescription:  p.Description,
			columnKeyManufacturer: p.Manufacturer,
		}))
	}
	pt.table = pt.table.WithRows(rows).WithHighlightedRow(highlight)
}

func (pt *PortTable) Len() int {
	return len(pt.ports)
}

// Selected returns the device of the highlighted row
func (pt *PortTable) Selected() (string, bool) {
	if len(pt.ports) == 0 {
		return "", false
	}
	i := pt.table.GetHighlightedRowIndex()
	if i < 0 || i >= len(pt.ports) {
		return "", false
	}
	return pt.ports[i].Device, true
}

func (pt *PortTable) SetWidth(width int) {
	pt.table = pt.table.WithTargetWidth(width)
}

// Update forwards row navigation keys to the table
func (pt *PortTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	pt.table, cmd = pt.table.Update(msg)
	return cmd
}

func (pt *PortTable) View() string {
	if len(pt.ports) == 0 {
		return styles.MutedStyle.Render("No serial ports found. Plug in the board and press 'r'.")
	}
	return pt.table.View()
}
