package views

import (
	"fmt"
	"sort"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/inkwell/internal/locale"
)

func restBase(d RestPage) string { return "/admin/" + d.Resource }

func itemID(item map[string]any) string {
	return fmt.Sprint(item["id"])
}

func columns(d RestPage, item map[string]any) []string {
	if len(d.Columns) > 0 {
		return d.Columns
	}
	cols := make([]string, 0, len(item))
	for k := range item {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func restIndex(d RestPage) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(d.Resource)
		h.raw(`</h1><p><a`)
		h.href(restBase(d) + "?mode=add")
		h.raw(`>`)
		h.t(locale.UIAdd)
		h.raw(`</a></p><table class="rest"><thead><tr>`)
		var cols []string
		if len(d.Items) > 0 {
			cols = columns(d, d.Items[0])
		} else {
			cols = d.Columns
		}
		for _, c := range cols {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`<th></th></tr></thead><tbody>`)
		for _, item := range d.Items {
			h.raw(`<tr>`)
			for _, c := range cols {
				h.raw(`<td>`)
				h.text(fmt.Sprint(item[c]))
				h.raw(`</td>`)
			}
			h.raw(`<td><a`)
			h.href(restBase(d) + "/" + itemID(item))
			h.raw(`>`)
			h.t(locale.UIView)
			h.raw(`</a> <a`)
			h.href(restBase(d) + "/" + itemID(item) + "?mode=edit")
			h.raw(`>`)
			h.t(locale.UIEdit)
			h.raw(`</a></td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

func restShow(d RestPage) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(d.Resource)
		h.raw(`</h1><dl class="rest">`)
		for _, c := range columns(d, d.Item) {
			h.raw(`<dt>`)
			h.text(c)
			h.raw(`</dt><dd>`)
			h.text(fmt.Sprint(d.Item[c]))
			h.raw(`</dd>`)
		}
		h.raw(`</dl><p><a`)
		h.href(restBase(d) + "/" + itemID(d.Item) + "?mode=edit")
		h.raw(`>`)
		h.t(locale.UIEdit)
		h.raw(`</a> <a`)
		h.href(restBase(d))
		h.raw(`>`)
		h.t(locale.UIOverview)
		h.raw(`</a></p>`)
	})
}

// restForm serves both add and edit: edit posts to the item URL.
func restForm(d RestPage) templ.Component {
	return component(func(h *htmlWriter) {
		action := restBase(d)
		if d.Item != nil && d.Item["id"] != nil {
			action += "/" + itemID(d.Item)
		}
		h.raw(`<form class="rest" method="post"`)
		h.attr("action", action)
		h.raw(`>`)
		for _, c := range d.Columns {
			if c == "id" || c == "created" {
				continue
			}
			h.raw(`<label>`)
			h.text(c)
			h.raw(` <input type="text"`)
			h.attr("name", c)
			if v, ok := d.Item[c]; ok && v != nil {
				h.attr("value", fmt.Sprint(v))
			}
			h.raw(`>`)
			if msg, ok := d.Errors[c]; ok {
				h.raw(`<span class="error">`)
				h.text(msg)
				h.raw(`</span>`)
			}
			h.raw(`</label>`)
		}
		h.raw(`<button type="submit">`)
		h.t(locale.UISave)
		h.raw(`</button></form>`)
	})
}
