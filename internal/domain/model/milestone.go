package model

import "time"

// Milestone — веха проекта с вложенным деревом функциональности.
// Дерево features → items хранится как JSONB-документ, заметки — как
// параллельный список. Обновление заменяет документ целиком: дерево
// редактируется в модальном окне UI и присылается одним куском.
type Milestone struct {
	// ID — UUID записи
	ID string
	// ProjectID — UUID проекта
	ProjectID string
	// Title — название вехи
	Title string
	// DueDate — плановый срок
	DueDate *time.Time
	// Features — дерево функциональности
	Features []MilestoneFeature
	// Notes — заметки (параллельный список, не привязаны к features)
	Notes []MilestoneNote
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// MilestoneFeature — элемент дерева вехи.
type MilestoneFeature struct {
	// Title — название функциональности
	Title string `json:"title"`
	// Items — пункты работ
	Items []MilestoneItem `json:"items,omitempty"`
}

// MilestoneItem — пункт работ внутри функциональности.
type MilestoneItem struct {
	// Text — описание пункта
	Text string `json:"text"`
	// Done — выполнен ли пункт
	Done bool `json:"done"`
}

// MilestoneNote — заметка к вехе.
type MilestoneNote struct {
	// Text — текст заметки
	Text string `json:"text"`
	// Author — username автора
	Author string `json:"author"`
	// CreatedAt — время добавления
	CreatedAt time.Time `json:"created_at"`
}

// Progress возвращает количество выполненных и общее количество пунктов
// по всем функциональностям вехи.
func (m *Milestone) Progress() (done, total int) {
	for _, f := range m.Features {
		for _, it := range f.Items {
			total++
			if it.Done {
				done++
			}
		}
	}
	return done, total
}
