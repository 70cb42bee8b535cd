package main

import (
	"fmt"
	"io"
	"time"

	"task-lab/api/taskv1"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func renderTasks(out io.Writer, tasks []*taskv1.Task) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Title", "Done", "Created", "Updated"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, task := range tasks {
		done := " "
		if task.Completed {
			done = "x"
		}
		table.Append([]string{
			task.Id,
			task.Title,
			done,
			task.CreatedAt.Local().Format(time.DateTime),
			task.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}

func (a *app) renderNotification(n *taskv1.Notification) {
	style := color.New(color.FgCyan)
	switch n.Type {
	case "TASK_DELETED":
		style = color.New(color.FgRed)
	case "TASK_COMPLETED":
		style = color.New(color.FgGreen)
	}
	title := ""
	if n.Task != nil {
		title = n.Task.Title
	}
	_, _ = fmt.Fprintf(a.out, "%s %s %q %s\n",
		n.Timestamp.Local().Format(time.TimeOnly),
		a.paint(style, fmt.Sprintf("%-14s", n.Type)),
		title,
		n.Message,
	)
}

func (a *app) renderChat(msg *taskv1.ChatMessage) {
	at := msg.Timestamp.Local().Format(time.TimeOnly)
	switch msg.Type {
	case "TEXT":
		lang := ""
		if msg.Language != "" {
			lang = " [" + msg.Language + "]"
		}
		_, _ = fmt.Fprintf(a.out, "%s %s%s: %s\n", at, a.paint(color.New(color.FgYellow, color.OpBold), msg.SenderName), lang, msg.Text)
	default:
		_, _ = fmt.Fprintf(a.out, "%s %s\n", at, a.paint(color.New(color.FgGray), "* "+msg.Text))
	}
}
