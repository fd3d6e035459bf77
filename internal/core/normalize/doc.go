// Package normalize 將 OCR 來源的不可靠欄位（份量、人數、名稱、標題）
// 轉為可計算的值。所有解析函式皆不回傳錯誤：無法解析時退回文件化的預設值。
package normalize
