// Package policy serves the static policy pages shown to traders.
package policy

import (
	"fmt"
	"sort"

	"github.com/junaidrashid-git/bidaya-api/models"
)

type Page struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

var pages = map[string]Page{
	"delivery": {
		Title:   "سياسة التوصيل",
		Content: "تضمن وصول الطلبات للزبائن في الوقت المحدد (من يوم إلى ثلاثة أيام عمل). سعر التوصيل هو 3,000 دينار لمحافظة بغداد، و 5,000 دينار لباقي المحافظات.",
	},
	"earnings": {
		Title:   "سياسة استلام الأرباح",
		Content: "يتم استلام الأرباح عن طريق زين كاش أو ماستر كارد الرافدين. تتم معالجة طلبات السحب خلال 72 ساعة كحد أقصى.",
	},
	"returns": {
		Title:   "سياسة الاستبدال والاسترجاع",
		Content: "تتوفر إمكانية استبدال واسترجاع المنتج خلال مدة لا تتجاوز 7 أيام من تاريخ الاستلام، فقط في حال كان يحتوي على مشكلة أو خلل مصنعي.",
	},
	"terms": {
		Title: "شروط الخدمة",
		Content: `مرحباً بك في منصة بداية. باستخدامك لهذه المنصة، فإنك توافق على الالتزام بالشروط والأحكام التالية:

1.  **الحسابات:** يجب أن تكون جميع المعلومات المقدمة عند التسجيل دقيقة وحديثة. أنت مسؤول عن الحفاظ على سرية حسابك وكلمة المرور.
2.  **المنتجات:** يمنع عرض أي منتجات مخالفة للقانون أو السياسات العامة. المنصة لها الحق في إزالة أي منتج تراه غير مناسب.
3.  **الأسعار والأرباح:** يجب على التاجر الالتزام بنطاق الأسعار المحدد للمنتجات. يتم احتساب الأرباح بناءً على سعر البيع المحدد من قبل التاجر مطروحاً منه سعر التكلفة.
4.  **السلوك:** يمنع استخدام المنصة لأي أغراض غير قانونية أو احتيالية. يجب التعامل باحترام مع جميع المستخدمين وفريق الدعم.
5.  **إنهاء الخدمة:** تحتفظ منصة بداية بالحق في تعليق أو إنهاء أي حساب يخالف هذه الشروط دون إشعار مسبق.

نشكر لكم تفهمكم والتزامكم.`,
	},
}

// Get returns the page for slug or models.ErrNotFound.
func Get(slug string) (Page, error) {
	p, ok := pages[slug]
	if !ok {
		return Page{}, fmt.Errorf("policy %q: %w", slug, models.ErrNotFound)
	}
	p.Slug = slug
	return p, nil
}

func Slugs() []string {
	out := make([]string, 0, len(pages))
	for s := range pages {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
